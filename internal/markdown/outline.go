// Package markdown inspects rendered Markdown bodies.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one ATX or setext heading of a document.
type Heading struct {
	Level int
	Title string
	// HasContent is false when the heading is directly followed by a heading of
	// the same or a higher level, or by the end of the document.
	HasContent bool
}

// Outline parses a Markdown body (front-matter already removed) and returns
// its top-level headings in document order.
func Outline(body []byte) []Heading {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var out []Heading
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gmast.Heading)
		if !ok {
			continue
		}
		out = append(out, Heading{
			Level:      h.Level,
			Title:      inlineText(h, body),
			HasContent: hasContent(h),
		})
	}
	return out
}

func hasContent(h *gmast.Heading) bool {
	next := h.NextSibling()
	if next == nil {
		return false
	}
	if nh, ok := next.(*gmast.Heading); ok && nh.Level <= h.Level {
		return false
	}
	return true
}

func inlineText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *gmast.Text:
			buf.Write(v.Segment.Value(source))
		case *gmast.String:
			buf.Write(v.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

// EmptySections returns the titles of section headings (level 2 and deeper)
// without content. A bare page title is not a section.
func EmptySections(body []byte) []string {
	var empty []string
	for _, h := range Outline(body) {
		if h.Level > 1 && !h.HasContent {
			empty = append(empty, h.Title)
		}
	}
	return empty
}

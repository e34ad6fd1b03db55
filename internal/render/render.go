// Package render turns an extracted document into a Markdown page with a
// front-matter block, in a fixed and deterministic layout.
package render

import (
	"errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docextract/internal/docmodel"
	"git.home.luguber.info/inful/docextract/internal/extract"
	"git.home.luguber.info/inful/docextract/internal/frontmatter"
	"git.home.luguber.info/inful/docextract/internal/frontmatterops"
	"git.home.luguber.info/inful/docextract/internal/markdown"
)

// Default layout settings.
const (
	DefaultCodeLanguage  = "d"
	DefaultBasicLimit    = 3
	DefaultNegationLimit = 2
)

// ErrEmptySection is returned by Verify for a heading without content.
var ErrEmptySection = errors.New("rendered document has an empty section")

// Options controls the layout. Zero limits fall back to the defaults.
type Options struct {
	CodeLanguage  string
	BasicLimit    int
	NegationLimit int
	// UID adds a stable uid field to the front-matter.
	UID bool
	// Fingerprint adds a content fingerprint field to the front-matter.
	Fingerprint bool
}

// DefaultOptions returns the standard layout.
func DefaultOptions() Options {
	return Options{
		CodeLanguage:  DefaultCodeLanguage,
		BasicLimit:    DefaultBasicLimit,
		NegationLimit: DefaultNegationLimit,
	}
}

// Renderer renders documents. It holds no per-document state and is safe for
// reuse.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.CodeLanguage == "" {
		opts.CodeLanguage = DefaultCodeLanguage
	}
	if opts.BasicLimit <= 0 {
		opts.BasicLimit = DefaultBasicLimit
	}
	if opts.NegationLimit <= 0 {
		opts.NegationLimit = DefaultNegationLimit
	}
	return &Renderer{opts: opts}
}

// Render produces the full page for doc: front-matter followed by the body.
func (r *Renderer) Render(doc docmodel.ExtractedDoc) ([]byte, error) {
	body := r.Body(doc)

	fields := []frontmatter.Field{
		{Key: "title", Value: doc.DisplayName()},
		{Key: "description", Value: doc.Summary()},
	}
	if r.opts.UID {
		fields = append(fields, frontmatter.Field{
			Key:   frontmatterops.UIDKey,
			Value: frontmatterops.StableUID(string(doc.Category()), doc.Name),
		})
	}
	if r.opts.Fingerprint {
		fp, err := frontmatterops.ComputeFingerprint(fields, body)
		if err != nil {
			return nil, fmt.Errorf("fingerprint %s: %w", doc.Name, err)
		}
		fields = append(fields, frontmatter.Field{Key: frontmatterops.FingerprintKey, Value: fp})
	}

	fm, err := frontmatter.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("front-matter %s: %w", doc.Name, err)
	}
	return frontmatter.Join(fm, body), nil
}

// Body renders everything below the front-matter. It starts with a blank line
// so the page reads the same as a hand-written one.
func (r *Renderer) Body(doc docmodel.ExtractedDoc) []byte {
	name := doc.DisplayName()
	p := &page{}

	p.line("")
	p.para("# ." + name + "()")

	if doc.Description != "" {
		p.para(doc.Description)
	}
	if doc.NarrativeComment != "" && doc.NarrativeComment != doc.Description {
		p.para(doc.NarrativeComment)
	}

	r.examples(p, doc.Examples)

	if len(doc.SupportedTypes) > 0 {
		p.para("## Supported Types")
		for _, t := range doc.SupportedTypes {
			p.line("- `" + t + "`")
		}
		p.line("")
	}

	if len(doc.Aliases) > 0 {
		p.para("## Aliases")
		for _, a := range doc.Aliases {
			p.line("- `." + a + "()`")
		}
		p.line("")
	}

	if doc.HasNegationModifier {
		p.para("## Modifiers")
		p.para("This assertion supports the following modifiers:")
		for _, m := range modifiers {
			p.line("- `" + m.name + "` - " + m.text)
		}
		p.line("")
	}

	return p.bytes()
}

var modifiers = []struct{ name, text string }{
	{".not", "Negates the assertion"},
	{".to", "Language chain (no effect)"},
	{".be", "Language chain (no effect)"},
}

func (r *Renderer) examples(p *page, all []extract.Example) {
	if len(all) == 0 {
		return
	}
	basic, negated, failures := partition(all)

	p.para("## Examples")

	if len(basic) > 0 {
		p.para("### Basic Usage")
		r.fence(p, "", limit(basic, r.opts.BasicLimit))
	}
	if len(negated) > 0 {
		p.para("### With Negation")
		r.fence(p, "", limit(negated, r.opts.NegationLimit))
	}
	if len(failures) > 0 {
		p.para("### What Failures Look Like")
		p.para("When the assertion fails, you'll see a clear error message:")
		r.fence(p, "// This would fail:", failures[:1])
	}
}

func (r *Renderer) fence(p *page, lead string, examples []extract.Example) {
	p.line("```" + r.opts.CodeLanguage)
	if lead != "" {
		p.line(lead)
	}
	for _, ex := range examples {
		p.line(ex.Code)
	}
	p.line("```")
	p.line("")
}

// partition splits examples into success, negated and failure groups in
// source order. Failure illustrations only ever land in the last group.
func partition(all []extract.Example) (basic, negated, failures []extract.Example) {
	for _, ex := range all {
		switch {
		case ex.Failure:
			failures = append(failures, ex)
		case ex.Negated:
			negated = append(negated, ex)
		default:
			basic = append(basic, ex)
		}
	}
	return basic, negated, failures
}

func limit(examples []extract.Example, n int) []extract.Example {
	if len(examples) > n {
		return examples[:n]
	}
	return examples
}

// Verify checks a rendered page for structural defects: the front-matter
// must be closed and no section may be empty.
func Verify(content []byte) error {
	_, body, _, err := frontmatter.Split(content)
	if err != nil {
		return err
	}
	if empty := markdown.EmptySections(body); len(empty) > 0 {
		return fmt.Errorf("%w: %s", ErrEmptySection, strings.Join(empty, ", "))
	}
	return nil
}

// page accumulates output lines; they are joined with LF.
type page struct {
	lines []string
}

func (p *page) line(s string) { p.lines = append(p.lines, s) }

// para writes s followed by a blank line.
func (p *page) para(s string) {
	p.lines = append(p.lines, s, "")
}

func (p *page) bytes() []byte {
	return []byte(strings.Join(p.lines, "\n"))
}

// Package docmodel assembles extracted facts into one normalized document
// record per source file.
package docmodel

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docextract/internal/category"
	"git.home.luguber.info/inful/docextract/internal/extract"
	"git.home.luguber.info/inful/docextract/internal/sources"
)

// ExtractedDoc is the normalized record for one source file.
type ExtractedDoc struct {
	// Name is the file's base name without extension. Never empty.
	Name string
	// FilePath is the origin path; it only feeds category routing.
	FilePath string

	Description      string
	NarrativeComment string
	Examples         []extract.Example
	SupportedTypes   []string
	Aliases          []string

	// HasNegationModifier is set when any example is negated.
	HasNegationModifier bool
	// PrimaryIdentifier is the operation's callable name, when one was found.
	PrimaryIdentifier string
}

// NameFromPath derives a document name from a source path: the base name with
// its extension removed, or the full base name when nothing would remain
// (for example ".d").
func NameFromPath(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// Build runs the extraction rules over unit and assembles the result.
//
// ok is false when the file has none of the facts that make it documentable.
// A non-nil error means at least one rule failed unexpectedly; the returned
// document then holds whatever the other rules produced.
func Build(unit sources.Unit) (doc ExtractedDoc, ok bool, err error) {
	name := NameFromPath(unit.Path)

	facts, err := extract.Match(unit.Text, name)
	doc = FromFacts(name, unit.Path, facts)
	if err != nil {
		return doc, false, fmt.Errorf("extract %s: %w", unit.Path, err)
	}
	return doc, doc.Eligible(), nil
}

// FromFacts assembles a document from already extracted facts.
func FromFacts(name, path string, f extract.Facts) ExtractedDoc {
	doc := ExtractedDoc{
		Name:              name,
		FilePath:          path,
		Description:       f.Description,
		NarrativeComment:  f.Narrative,
		Examples:          f.Examples,
		SupportedTypes:    f.SupportedTypes,
		Aliases:           withoutName(f.Aliases, name),
		PrimaryIdentifier: f.PrimaryIdentifier,
	}
	for _, ex := range f.Examples {
		if ex.Negated {
			doc.HasNegationModifier = true
			break
		}
	}
	return doc
}

// withoutName drops any alias equal to the document name.
func withoutName(aliases []string, name string) []string {
	var out []string
	for _, a := range aliases {
		if !strings.EqualFold(a, name) {
			out = append(out, a)
		}
	}
	return out
}

// Eligible reports whether the document carries at least one fact worth
// rendering. Types and aliases alone do not make a document.
func (d ExtractedDoc) Eligible() bool {
	return d.Description != "" ||
		d.NarrativeComment != "" ||
		len(d.Examples) > 0 ||
		d.PrimaryIdentifier != ""
}

// DisplayName is the operation name shown to readers: the primary identifier
// when present, otherwise the file name.
func (d ExtractedDoc) DisplayName() string {
	if d.PrimaryIdentifier != "" {
		return d.PrimaryIdentifier
	}
	return d.Name
}

// Category routes the document by its origin path.
func (d ExtractedDoc) Category() category.Category {
	return category.Route(d.FilePath)
}

// Summary returns the first non-empty of description, narrative and a
// synthesized fallback naming the operation.
func (d ExtractedDoc) Summary() string {
	switch {
	case d.Description != "":
		return d.Description
	case d.NarrativeComment != "":
		return d.NarrativeComment
	default:
		return "The " + d.DisplayName() + " assertion"
	}
}

package pipeline

import (
	"git.home.luguber.info/inful/docextract/internal/render"
	"git.home.luguber.info/inful/docextract/internal/sources"
)

// DefaultOutputExtension is the extension of generated documents.
const DefaultOutputExtension = ".mdx"

// Options configures one extraction run.
type Options struct {
	SourceRoot      string
	OutputRoot      string
	OutputExtension string
	Sources         sources.Options
	Render          render.Options
	// Verify rejects rendered pages with empty sections.
	Verify bool
	// Clean removes OutputRoot before writing.
	Clean bool
}

// DefaultOptions returns options for the fixed source conventions.
func DefaultOptions(sourceRoot, outputRoot string) Options {
	return Options{
		SourceRoot:      sourceRoot,
		OutputRoot:      outputRoot,
		OutputExtension: DefaultOutputExtension,
		Sources:         sources.DefaultOptions(),
		Render:          render.DefaultOptions(),
		Verify:          true,
	}
}

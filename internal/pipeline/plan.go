package pipeline

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/docextract/internal/category"
	"git.home.luguber.info/inful/docextract/internal/docmodel"
	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/sources"
)

// PlanEntry describes what a run would do with one candidate file.
type PlanEntry struct {
	Path         string
	Name         string
	Category     category.Category
	Identifier   string
	Documentable bool
	// Output is the document path that would be written, if Documentable.
	Output string
	// Err is set when the file would be skipped as unreadable or unparsable.
	Err error
}

// Plan walks and extracts like Run but writes nothing.
func (d *Driver) Plan(ctx context.Context) ([]PlanEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	walker, err := sources.NewWalker(d.opts.SourceRoot, d.opts.Sources)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid source options").Build()
	}

	var entries []PlanEntry
	for path := range walker.Files() {
		if err := ctx.Err(); err != nil {
			return entries, errors.WrapError(err, errors.CategoryRuntime, "discovery canceled").Build()
		}

		e := PlanEntry{
			Path:     path,
			Name:     docmodel.NameFromPath(path),
			Category: category.Route(path),
		}
		doc, ok, err := extractFile(path)
		e.Identifier = doc.PrimaryIdentifier
		e.Err = err
		if err == nil && ok {
			e.Documentable = true
			e.Output = filepath.Join(d.opts.OutputRoot, string(e.Category), doc.Name+d.opts.OutputExtension)
		}
		entries = append(entries, e)
	}

	if err := walker.Err(); err != nil {
		return entries, errors.WrapError(err, errors.CategoryFileSystem, "cannot walk source root").
			WithContext("path", d.opts.SourceRoot).
			Build()
	}
	return entries, nil
}

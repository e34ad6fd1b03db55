package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/logfields"
)

// clean removes the output root. It refuses roots that would take the working
// directory, the filesystem root or the source tree with them.
func (d *Driver) clean() error {
	if err := checkCleanable(d.opts.OutputRoot, d.opts.SourceRoot); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid output.clean target").
			WithContext("path", d.opts.OutputRoot).
			Build()
	}
	if err := os.RemoveAll(d.opts.OutputRoot); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output root").
			WithContext("path", d.opts.OutputRoot).
			Build()
	}
	slog.Info("Cleaned output root", logfields.Path(d.opts.OutputRoot))
	return nil
}

func checkCleanable(output, source string) error {
	out, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsafeClean, err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsafeClean, err)
	}
	if strings.TrimSpace(output) == "" || out == filepath.Dir(out) || out == wd {
		return fmt.Errorf("%w: %s", ErrUnsafeClean, output)
	}
	if contains(out, wd) {
		return fmt.Errorf("%w: %s contains the working directory", ErrUnsafeClean, output)
	}
	if src, err := filepath.Abs(source); err == nil && contains(out, src) {
		return fmt.Errorf("%w: %s contains the source root", ErrUnsafeClean, output)
	}
	return nil
}

// contains reports whether path is dir or lies below it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Package sources discovers candidate source files and loads them as units.
package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/docextract/internal/logfields"
)

// DefaultExtension is the source-file extension of documented operations.
const DefaultExtension = ".d"

// DefaultExcludeFiles are infrastructure files that never carry operation docs.
var DefaultExcludeFiles = []string{"package.d", "registry.d"}

// Options controls which files the Walker yields.
type Options struct {
	Extension    string   // File name suffix to include (e.g. ".d")
	ExcludeFiles []string // Exact base names to skip
	Ignore       []string // Glob patterns relative to the root, '/' separated
}

// DefaultOptions returns the fixed source conventions.
func DefaultOptions() Options {
	return Options{
		Extension:    DefaultExtension,
		ExcludeFiles: slices.Clone(DefaultExcludeFiles),
	}
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Walker produces candidate source paths under a root directory. It is single
// use: Files may be ranged over once, after which Err reports the outcome.
type Walker struct {
	root     string
	opts     Options
	ignore   []compiledPattern
	consumed bool
	err      error
}

// NewWalker creates a walker for root. Only ignore-pattern compilation can
// fail here; a missing root is reported as an empty sequence later.
func NewWalker(root string, opts Options) (*Walker, error) {
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	w := &Walker{root: root, opts: opts}
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidIgnorePattern, pattern, err)
		}
		w.ignore = append(w.ignore, compiledPattern{pattern: pattern, glob: g})
	}
	return w, nil
}

// Root returns the directory being walked.
func (w *Walker) Root() string { return w.root }

// Files returns a lazy sequence of candidate file paths in lexical order.
// Unreadable sub-directories are logged and skipped; problems with the root
// itself stop the sequence and are reported by Err.
func (w *Walker) Files() iter.Seq[string] {
	return func(yield func(string) bool) {
		if w.consumed {
			w.err = ErrAlreadyWalked
			return
		}
		w.consumed = true

		info, err := os.Stat(w.root)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("Source root does not exist", logfields.Path(w.root))
			return
		case err != nil:
			w.err = fmt.Errorf("%w: %s: %w", ErrRootUnreadable, w.root, err)
			return
		case !info.IsDir():
			w.err = fmt.Errorf("%w: %s", ErrRootNotDirectory, w.root)
			return
		}

		walkErr := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == w.root {
					return err
				}
				slog.Warn("Skipping unreadable path", logfields.Path(path), logfields.Error(err))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, relErr := filepath.Rel(w.root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if rel != "." && w.shouldIgnore(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !w.isCandidate(d.Name()) || w.shouldIgnore(rel) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil {
			w.err = fmt.Errorf("%w: %s: %w", ErrRootUnreadable, w.root, walkErr)
		}
	}
}

// Err returns the first root-level error encountered while iterating.
func (w *Walker) Err() error { return w.err }

func (w *Walker) isCandidate(name string) bool {
	if !strings.HasSuffix(name, w.opts.Extension) {
		return false
	}
	return !slices.Contains(w.opts.ExcludeFiles, name)
}

func (w *Walker) shouldIgnore(rel string) bool {
	for _, cp := range w.ignore {
		if cp.glob.Match(rel) || cp.glob.Match(rel+"/**") {
			return true
		}
	}
	return false
}

package versioning

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"git.home.luguber.info/inful/docextract/internal/logfields"
)

var (
	currentVersionRe = regexp.MustCompile(`Current version v\d+\.\d+\.\d+([-\w.]*)?`)
	sdlDependencyRe  = regexp.MustCompile(`version="~>[\d.]+"`)
)

// Rewriter updates version references in Markdown pages.
type Rewriter struct {
	info       Info
	pkg        string
	jsonDepRe  *regexp.Regexp
	extensions []string
}

// NewRewriter prepares the substitutions for info. pkg is the dependency name
// used in JSON install snippets; an empty pkg disables that substitution.
func NewRewriter(info Info, pkg string) *Rewriter {
	r := &Rewriter{info: info, pkg: pkg, extensions: []string{".md", ".mdx"}}
	if pkg != "" {
		r.jsonDepRe = regexp.MustCompile(`"` + regexp.QuoteMeta(pkg) + `":\s*"~>[\d.]+"`)
	}
	return r
}

// Apply returns content with every version reference replaced.
func (r *Rewriter) Apply(content string) string {
	content = currentVersionRe.ReplaceAllLiteralString(content, "Current version v"+r.info.Version)
	content = sdlDependencyRe.ReplaceAllLiteralString(content, `version="~>`+r.info.MajorMinor+`"`)
	if r.jsonDepRe != nil {
		content = r.jsonDepRe.ReplaceAllLiteralString(content, `"`+r.pkg+`": "~>`+r.info.MajorMinor+`"`)
	}
	return content
}

// RewriteTree applies the substitutions to every Markdown page below dir and
// returns the paths that changed. Files that cannot be read or written are
// logged and skipped.
func (r *Rewriter) RewriteTree(dir string) ([]string, error) {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrContentDirMissing, dir)
	}

	var updated []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable path", logfields.Path(path), logfields.Error(err))
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !r.isPage(path) {
			return nil
		}
		changed, err := r.rewriteFile(path)
		if err != nil {
			slog.Warn("Could not update page", logfields.File(path), logfields.Error(err))
			return nil
		}
		if changed {
			slog.Debug("Updated version references", logfields.File(path))
			updated = append(updated, path)
		}
		return nil
	})
	return updated, err
}

func (r *Rewriter) isPage(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range r.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (r *Rewriter) rewriteFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out := r.Apply(string(data))
	if out == string(data) {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/docextract/internal/versioning"
)

// StampCmd implements the 'stamp' command.
type StampCmd struct {
	Repository string `short:"r" help:"Git repository to read the version from (overrides stamp.repository)"`
	PublicDir  string `help:"Directory for version.json (overrides stamp.public_dir)"`
	ContentDir string `help:"Markdown tree to update (overrides stamp.content_dir)"`
	Package    string `help:"Dependency name in install snippets (overrides stamp.package_name)"`
}

func (s *StampCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	opts := versioning.StampOptions{
		Repository:  firstNonEmpty(s.Repository, cfg.Stamp.Repository),
		PublicDir:   firstNonEmpty(s.PublicDir, cfg.Stamp.PublicDir),
		ContentDir:  firstNonEmpty(s.ContentDir, cfg.Stamp.ContentDir),
		PackageName: firstNonEmpty(s.Package, cfg.Stamp.PackageName),
	}

	res, err := versioning.Stamp(opts, time.Now())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "Version info updated: v%s (%s)\n", res.Info.Version, res.Info.CommitHash)
	_, _ = fmt.Fprintf(g.out(), "Updated %d markdown file(s)\n", len(res.Updated))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

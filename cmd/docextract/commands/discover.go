package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"git.home.luguber.info/inful/docextract/internal/pipeline"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Source string `short:"s" help:"Source root (overrides source.root)"`
	All    bool   `short:"a" help:"Also list files that would not produce a page"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	RunFlags{Source: d.Source}.Apply(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	entries, err := pipeline.New(PipelineOptions(cfg)).Plan(ctx)
	if err != nil {
		return err
	}
	return PrintPlan(g.out(), cfg.Source.Root, entries, d.All)
}

// PrintPlan writes one row per planned file.
func PrintPlan(w io.Writer, sourceRoot string, entries []pipeline.PlanEntry, all bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FILE\tCATEGORY\tNAME\tSTATUS")

	documentable := 0
	for _, e := range entries {
		status := "page"
		switch {
		case e.Err != nil:
			status = "error: " + e.Err.Error()
		case !e.Documentable:
			status = "skip"
		default:
			documentable++
		}
		if !all && status == "skip" {
			continue
		}
		rel, err := filepath.Rel(sourceRoot, e.Path)
		if err != nil {
			rel = e.Path
		}
		name := e.Name
		if e.Identifier != "" && e.Identifier != e.Name {
			name = fmt.Sprintf("%s (%s)", e.Name, e.Identifier)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", filepath.ToSlash(rel), e.Category, name, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d file(s) would produce a page\n", documentable, len(entries))
	return err
}

package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docextract/internal/eventstore"
	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of runs to show"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Database == "" {
		return errors.ConfigError("history.database is not configured").Build()
	}
	store, err := openStore(cfg.History.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return PrintHistory(context.Background(), g.out(), store, h.Limit)
}

// runRow summarizes one run's events.
type runRow struct {
	id       string
	started  time.Time
	status   string
	detail   string
	skipped  int
	duration time.Duration
}

// PrintHistory writes the most recent runs, newest first.
func PrintHistory(ctx context.Context, w io.Writer, store eventstore.Store, limit int) error {
	ids, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return errors.WrapError(err, errors.CategoryStorage, "failed to list runs").Build()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tDETAIL")
	for _, id := range ids {
		events, err := store.GetByRunID(ctx, id)
		if err != nil {
			return errors.WrapError(err, errors.CategoryStorage, "failed to read run").
				WithContext("run_id", id).
				Build()
		}
		row := summarizeRun(id, events)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			row.id, row.started.Format(time.RFC3339), row.status, row.detail)
	}
	return tw.Flush()
}

func summarizeRun(id string, events []eventstore.Event) runRow {
	row := runRow{id: id, status: "incomplete"}
	for _, e := range events {
		switch e.Type {
		case eventstore.TypeRunStarted:
			row.started = e.Timestamp
		case eventstore.TypeFileSkipped:
			row.skipped++
		case eventstore.TypeRunCompleted:
			var p eventstore.RunCompleted
			if e.Decode(&p) == nil {
				row.status = "ok"
				row.duration = time.Duration(p.DurationMS) * time.Millisecond
				row.detail = fmt.Sprintf("%d generated, %d scanned in %s", p.Generated, p.Scanned, row.duration)
			}
		case eventstore.TypeRunFailed:
			var p eventstore.RunFailed
			if e.Decode(&p) == nil {
				row.status = "failed"
				row.detail = p.Error
			}
		}
	}
	if row.skipped > 0 && row.status == "ok" {
		row.detail += fmt.Sprintf(", %d unparseable", row.skipped)
	}
	return row
}

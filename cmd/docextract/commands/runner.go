package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docextract/internal/config"
	"git.home.luguber.info/inful/docextract/internal/eventstore"
	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/logfields"
	"git.home.luguber.info/inful/docextract/internal/metrics"
	"git.home.luguber.info/inful/docextract/internal/pipeline"
)

// Runner is a pipeline driver wired to the configured metrics textfile and
// run journal.
type Runner struct {
	Driver   *pipeline.Driver
	metrics  *metrics.PrometheusRecorder
	textfile string
	store    *eventstore.SQLiteStore
}

// NewRunner builds the driver for cfg. Close releases the journal.
func NewRunner(cfg *config.Config) (*Runner, error) {
	r := &Runner{Driver: pipeline.New(PipelineOptions(cfg))}

	if cfg.Metrics.Textfile != "" {
		if err := ensureDir(cfg.Metrics.Textfile, "failed to create metrics directory"); err != nil {
			return nil, err
		}
		r.metrics = metrics.NewPrometheusRecorder(nil)
		r.textfile = cfg.Metrics.Textfile
		r.Driver.WithRecorder(r.metrics)
	}

	if db := cfg.History.Database; db != "" {
		store, err := openStore(db)
		if err != nil {
			return nil, err
		}
		r.store = store
		r.Driver.WithJournal(eventstore.NewJournal(store))
	}
	return r, nil
}

// ensureDir creates the parent directory of path.
func ensureDir(path, message string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	// #nosec G301 -- metrics and journal directories are local tool state.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, message).
			WithContext("path", dir).
			Build()
	}
	return nil
}

func openStore(path string) (*eventstore.SQLiteStore, error) {
	if err := ensureDir(path, "failed to create history directory"); err != nil {
		return nil, err
	}
	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStorage, "failed to open run journal").
			WithContext("path", path).
			Build()
	}
	return store, nil
}

// Run executes one pipeline run and refreshes the metrics textfile.
func (r *Runner) Run(ctx context.Context) (*pipeline.Summary, error) {
	sum, err := r.Driver.Run(ctx)
	if r.metrics != nil {
		if werr := r.metrics.WriteTextfile(r.textfile); werr != nil {
			slog.Warn("Could not write metrics textfile", logfields.Path(r.textfile), logfields.Error(werr))
		}
	}
	return sum, err
}

// RunFunc adapts Run for the watch and schedule loops.
func (r *Runner) RunFunc(ctx context.Context) error {
	_, err := r.Run(ctx)
	return err
}

// Close releases the journal.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

// Package daemon keeps generated documentation current. It reruns extraction
// when the source tree changes (Watcher) or on a fixed interval (RunEvery).
package daemon

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docextract/internal/logfields"
)

// RunFunc performs one extraction run.
type RunFunc func(ctx context.Context) error

// runner executes RunFunc on a single goroutine. Requests that arrive while a
// run is in progress collapse into exactly one follow-up run.
type runner struct {
	run      RunFunc
	requests chan string
}

func newRunner(run RunFunc) *runner {
	return &runner{run: run, requests: make(chan string, 1)}
}

// request asks for a run. It never blocks.
func (r *runner) request(reason string) {
	select {
	case r.requests <- reason:
	default:
	}
}

// loop serves requests until ctx is done.
func (r *runner) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-r.requests:
			r.execute(ctx, reason)
		}
	}
}

func (r *runner) execute(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	slog.Info("Regenerating documentation", slog.String("reason", reason))
	if err := r.run(ctx); err != nil {
		slog.Warn("Regeneration failed", slog.String("reason", reason), logfields.Error(err))
		return
	}
	slog.Debug("Regeneration finished",
		slog.String("reason", reason),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

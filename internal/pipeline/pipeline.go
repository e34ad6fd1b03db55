// Package pipeline drives a full extraction run: walk the source tree, extract
// each file, route, render and write the documents, and report a summary.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docextract/internal/category"
	"git.home.luguber.info/inful/docextract/internal/docmodel"
	"git.home.luguber.info/inful/docextract/internal/eventstore"
	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/logfields"
	"git.home.luguber.info/inful/docextract/internal/metrics"
	"git.home.luguber.info/inful/docextract/internal/render"
	"git.home.luguber.info/inful/docextract/internal/sources"
)

// Stage names used for timing.
const (
	StageExtract = "extract"
	StageRender  = "render"
	StageWrite   = "write"
)

// Progress receives one tick per scanned file. *progressbar.ProgressBar
// satisfies it.
type Progress interface {
	Add(n int) error
	Describe(description string)
	Finish() error
}

type noopProgress struct{}

func (noopProgress) Add(int) error   { return nil }
func (noopProgress) Describe(string) {}
func (noopProgress) Finish() error   { return nil }

// Summary reports the outcome of one run.
type Summary struct {
	RunID      string
	Scanned    int
	Generated  int
	Skipped    int // Files without any documentable fact
	Failed     int // Files dropped by a per-file failure
	Categories map[category.Category]int
	Written    []string
	Duration   time.Duration
}

// Driver runs the extraction pipeline. Runs are serialized; a Driver may be
// reused across runs (watch and schedule modes do).
type Driver struct {
	mu       sync.Mutex
	opts     Options
	renderer *render.Renderer
	recorder metrics.Recorder
	journal  eventstore.Journal
	progress Progress
	now      func() time.Time
}

// New creates a Driver with no-op metrics, journal and progress.
func New(opts Options) *Driver {
	if opts.OutputExtension == "" {
		opts.OutputExtension = DefaultOutputExtension
	}
	return &Driver{
		opts:     opts,
		renderer: render.New(opts.Render),
		recorder: metrics.NoopRecorder{},
		journal:  eventstore.NoopJournal{},
		progress: noopProgress{},
		now:      time.Now,
	}
}

// WithRecorder sets the metrics recorder.
func (d *Driver) WithRecorder(r metrics.Recorder) *Driver {
	if r != nil {
		d.recorder = r
	}
	return d
}

// WithJournal sets the run journal.
func (d *Driver) WithJournal(j eventstore.Journal) *Driver {
	if j != nil {
		d.journal = j
	}
	return d
}

// WithProgress sets the progress reporter.
func (d *Driver) WithProgress(p Progress) *Driver {
	if p != nil {
		d.progress = p
	}
	return d
}

// WithClock overrides the time source (for testing).
func (d *Driver) WithClock(now func() time.Time) *Driver {
	d.now = now
	return d
}

// Options returns the run options.
func (d *Driver) Options() Options { return d.opts }

// Run executes one full extraction run.
//
// Per-file read and extraction failures are logged and counted, never
// returned. Errors about the source root, output directories, rendering and
// writing abort the run and are returned classified.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := d.now()
	sum := &Summary{
		RunID:      uuid.NewString(),
		Categories: map[category.Category]int{},
	}
	log := slog.With(logfields.RunID(sum.RunID))
	log.Info("Extracting documentation",
		slog.String("source", d.opts.SourceRoot),
		slog.String("output", d.opts.OutputRoot))
	d.record(ctx, sum.RunID, eventstore.TypeRunStarted, eventstore.RunStarted{
		Source: d.opts.SourceRoot,
		Output: d.opts.OutputRoot,
	})

	err := d.run(ctx, log, sum)
	sum.Duration = d.now().Sub(start)
	d.recorder.ObserveRunDuration(sum.Duration)
	_ = d.progress.Finish()

	if err != nil {
		d.recorder.IncRunOutcome(metrics.OutcomeFailed)
		d.record(ctx, sum.RunID, eventstore.TypeRunFailed, eventstore.RunFailed{Error: err.Error()})
		return sum, err
	}

	d.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	d.record(ctx, sum.RunID, eventstore.TypeRunCompleted, eventstore.RunCompleted{
		Scanned:    sum.Scanned,
		Generated:  sum.Generated,
		Skipped:    sum.Skipped + sum.Failed,
		DurationMS: sum.Duration.Milliseconds(),
	})
	log.Info("Extraction complete",
		slog.Int("scanned", sum.Scanned),
		slog.Int("generated", sum.Generated),
		slog.Int("skipped", sum.Skipped),
		slog.Int("failed", sum.Failed),
		logfields.DurationMS(float64(sum.Duration.Milliseconds())))
	return sum, nil
}

type stageTimes map[string]time.Duration

func (d *Driver) run(ctx context.Context, log *slog.Logger, sum *Summary) error {
	if d.opts.Clean {
		if err := d.clean(); err != nil {
			return err
		}
	}

	walker, err := sources.NewWalker(d.opts.SourceRoot, d.opts.Sources)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid source options").Build()
	}

	times := stageTimes{}
	defer func() {
		for stage, dur := range times {
			d.recorder.ObserveStageDuration(stage, dur)
		}
	}()

	for path := range walker.Files() {
		if err := ctx.Err(); err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "run canceled").Build()
		}
		sum.Scanned++
		d.recorder.IncFilesScanned()
		_ = d.progress.Add(1)

		t := d.now()
		doc, ok, err := extractFile(path)
		times[StageExtract] += d.now().Sub(t)

		switch {
		case err != nil:
			sum.Failed++
			reason := metrics.SkipExtraction
			if stderrors.Is(err, sources.ErrFileReadFailed) {
				reason = metrics.SkipUnreadable
			}
			log.Warn("Could not parse source file", logfields.File(path), logfields.Error(err))
			d.recorder.IncFileSkipped(reason)
			d.record(ctx, sum.RunID, eventstore.TypeFileSkipped, eventstore.FileSkipped{
				File: path, Reason: string(reason), Error: err.Error(),
			})
			continue
		case !ok:
			sum.Skipped++
			log.Debug("Nothing to document", logfields.File(path))
			d.recorder.IncFileSkipped(metrics.SkipNotEligible)
			continue
		}

		content, err := d.renderPage(doc, times)
		if err != nil {
			sum.Failed++
			log.Warn("Could not render document", logfields.File(path), logfields.Error(err))
			d.recorder.IncFileSkipped(metrics.SkipRender)
			d.record(ctx, sum.RunID, eventstore.TypeFileSkipped, eventstore.FileSkipped{
				File: path, Reason: string(metrics.SkipRender), Error: err.Error(),
			})
			continue
		}

		out, err := d.writePage(doc, content, times)
		if err != nil {
			return err
		}

		cat := doc.Category()
		sum.Generated++
		sum.Categories[cat]++
		sum.Written = append(sum.Written, out)
		d.recorder.IncDocumentGenerated(string(cat))
		d.record(ctx, sum.RunID, eventstore.TypeDocumentWritten, eventstore.DocumentWritten{
			File: path, Output: out, Category: string(cat),
		})
		log.Debug("Generated document",
			logfields.Name(doc.DisplayName()),
			logfields.Category(string(cat)),
			logfields.Path(out))
	}

	if err := walker.Err(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot walk source root").
			WithContext("path", d.opts.SourceRoot).
			Build()
	}
	return nil
}

// extractFile loads and builds one document. A panic anywhere in extraction is
// turned into ErrExtractionFailed so a single file can never stop the run.
func extractFile(path string) (doc docmodel.ExtractedDoc, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.ExtractionError("failed to extract source file").
				WithCause(fmt.Errorf("%w: %v", ErrExtractionFailed, rec)).
				WithContext("file", path).
				Build()
		}
	}()

	unit, err := sources.Load(path)
	if err != nil {
		return docmodel.ExtractedDoc{}, false, err
	}
	doc, ok, err = docmodel.Build(unit)
	if err != nil {
		return doc, false, errors.ExtractionError("failed to extract source file").
			WithCause(fmt.Errorf("%w: %w", ErrExtractionFailed, err)).
			WithContext("file", path).
			Build()
	}
	return doc, ok, nil
}

// renderPage produces the page for doc. A rejected page only skips this file.
func (d *Driver) renderPage(doc docmodel.ExtractedDoc, times stageTimes) ([]byte, error) {
	t := d.now()
	defer func() { times[StageRender] += d.now().Sub(t) }()

	content, err := d.renderer.Render(doc)
	if err == nil && d.opts.Verify {
		err = render.Verify(content)
	}
	if err != nil {
		return nil, errors.RenderError("failed to render document").
			WithCause(err).
			WithContext("file", doc.FilePath).
			Build()
	}
	return content, nil
}

// writePage stores content at <output>/<category>/<name><ext>, overwriting any
// previous file.
func (d *Driver) writePage(doc docmodel.ExtractedDoc, content []byte, times stageTimes) (string, error) {
	dir := filepath.Join(d.opts.OutputRoot, string(doc.Category()))
	out := filepath.Join(dir, doc.Name+d.opts.OutputExtension)

	t := d.now()
	defer func() { times[StageWrite] += d.now().Sub(t) }()

	// #nosec G301 -- generated documentation is meant to be world readable.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to create category directory").
			WithContext("path", dir).
			Build()
	}
	// #nosec G306 -- generated documentation is meant to be world readable.
	if err := os.WriteFile(out, content, 0o644); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to write document").
			WithContext("path", out).
			Build()
	}
	return out, nil
}

func (d *Driver) record(ctx context.Context, runID, eventType string, payload any) {
	if err := d.journal.Record(ctx, runID, eventType, payload); err != nil {
		slog.Warn("Could not record run event",
			logfields.RunID(runID),
			slog.String("event", eventType),
			logfields.Error(err))
	}
}

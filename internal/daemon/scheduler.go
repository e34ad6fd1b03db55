package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/logfields"
)

// Scheduler wraps a gocron scheduler for periodic extraction.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// ScheduleEvery runs task every interval. A run that is still going when the
// next one is due makes the scheduler skip ahead rather than overlap.
// Returns the job ID.
func (s *Scheduler) ScheduleEvery(name string, every time.Duration, task func(), opts ...gocron.JobOption) (string, error) {
	if every <= 0 {
		return "", errors.ValidationError("interval must be positive").
			WithContext("interval", every.String()).
			Build()
	}
	opts = append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, opts...)

	job, err := s.scheduler.NewJob(gocron.DurationJob(every), gocron.NewTask(task), opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic job: %w", err)
	}
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// RunEvery runs fn immediately and then every interval until ctx is done.
// Failed runs are logged and the schedule continues.
func RunEvery(ctx context.Context, every time.Duration, fn RunFunc) error {
	if fn == nil {
		return errors.ValidationError("run function is required").Build()
	}
	s, err := NewScheduler()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "cannot create scheduler").Build()
	}

	r := newRunner(fn)
	task := func() { r.execute(ctx, "schedule") }
	if _, err := s.ScheduleEvery("extract", every, task, gocron.WithStartAt(gocron.WithStartImmediately())); err != nil {
		_ = s.scheduler.Shutdown()
		return err
	}

	slog.Info("Scheduled extraction", logfields.Interval(every.String()))
	s.Start()
	<-ctx.Done()
	return s.Stop()
}

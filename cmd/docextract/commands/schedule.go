package commands

import (
	"time"

	"git.home.luguber.info/inful/docextract/internal/daemon"
	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
)

// ScheduleCmd implements the 'schedule' command.
type ScheduleCmd struct {
	RunFlags `embed:""`
	Every    time.Duration `short:"e" help:"Interval between runs (overrides schedule.interval)"`
}

func (s *ScheduleCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	s.Apply(cfg)

	every := s.Every
	if every == 0 {
		if every, err = cfg.Schedule.Every(); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid schedule interval").Build()
		}
	}
	if every < time.Second {
		return errors.ValidationError("--every must be at least 1s").
			WithContext("every", every.String()).
			Build()
	}

	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = runner.Close() }()

	ctx, cancel := signalContext()
	defer cancel()
	return daemon.RunEvery(ctx, every, runner.RunFunc)
}

package commands

import (
	"time"

	"git.home.luguber.info/inful/docextract/internal/daemon"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	RunFlags `embed:""`
	Debounce time.Duration `help:"Quiet window before regenerating (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	w.Apply(cfg)

	debounce := w.Debounce
	if debounce == 0 {
		if debounce, err = cfg.Watch.DebounceDuration(); err != nil {
			return err
		}
	}

	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = runner.Close() }()

	watcher, err := daemon.NewWatcher(cfg.Source.Root, debounce, runner.RunFunc)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return watcher.Run(ctx)
}

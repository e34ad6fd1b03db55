package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/logfields"
)

// DefaultDebounce is the quiet window used when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reruns extraction whenever the source tree changes. Bursts of
// filesystem events within the debounce window trigger a single run.
type Watcher struct {
	root     string
	debounce time.Duration
	run      RunFunc
	fs       *fsnotify.Watcher
}

// NewWatcher watches every directory below root. The watches are in place
// when NewWatcher returns.
func NewWatcher(root string, debounce time.Duration, run RunFunc) (*Watcher, error) {
	if run == nil {
		return nil, errors.ValidationError("run function is required").Build()
	}
	if debounce < 0 {
		return nil, errors.ValidationError("debounce must not be negative").Build()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve source root").
			WithContext("path", root).
			Build()
	}
	if st, statErr := os.Stat(abs); statErr != nil || !st.IsDir() {
		return nil, errors.FileSystemError("source root not found or not a directory").
			WithContext("path", abs).
			Build()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "cannot create filesystem watcher").Build()
	}
	if err := addDirsRecursive(fsw, abs); err != nil {
		_ = fsw.Close()
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot watch source root").
			WithContext("path", abs).
			Build()
	}
	return &Watcher{root: abs, debounce: debounce, run: run, fs: fsw}, nil
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string { return w.root }

// Run performs an initial run, then reruns on change until ctx is done.
// Failed runs are logged; Run itself only returns once ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	workerCtx, cancel := context.WithCancel(ctx)
	r := newRunner(w.run)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.loop(workerCtx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	r.request("initial")
	trigger, stop := debouncer(w.debounce, func() { r.request("change") })
	defer stop()

	slog.Info("Watching for changes", logfields.Path(w.root))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, trigger)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := addDirsRecursive(w.fs, ev.Name); err != nil {
				slog.Warn("Cannot watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Operation(ev.Op.String()))
	trigger()
}

// debouncer returns a trigger that calls fire once no trigger has happened for
// window, and a stop function that cancels a pending call.
func debouncer(window time.Duration, fire func()) (trigger func(), stop func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(window, fire)
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent filters permission changes, hidden files and editor
// scratch files.
func shouldIgnoreEvent(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(ev.Name)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}

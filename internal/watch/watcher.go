// Package watch re-runs an action whenever a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Action is run once at start and again after each debounced change.
type Action func(ctx context.Context) error

// Watcher watches a single file through its parent directory, so editors
// that replace the file (write to temp, rename over) are still seen.
type Watcher struct {
	path     string
	action   Action
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	closed   bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event before the action runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger for change events and action failures.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher for path. The file does not need to exist yet.
func New(path string, action Action, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		path:     abs,
		action:   action,
		debounce: 500 * time.Millisecond,
		logger:   slog.New(slog.DiscardHandler),
		watcher:  fsw,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run runs the action, then re-runs it after changes until ctx is done.
// Action errors are logged and do not stop the watch; the next change
// gets another attempt.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	w.runAction(ctx)

	// timerC is nil while no change is pending.
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timerC:
			timerC = nil
			w.runAction(ctx)
		}
	}
}

// relevant reports whether event changes the watched file's content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// runAction runs the action and logs its failure.
func (w *Watcher) runAction(ctx context.Context) {
	if err := w.action(ctx); err != nil {
		w.logger.Error("run failed", "file", w.path, "error", err)
	}
}

// Close stops the underlying fsnotify watcher. Run returns once its
// channels are closed.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}

// Package lifecycle wraps command execution with timing and a completion
// report. Each wrapper captures the start time, runs the function, and
// reports the outcome with its duration.
package lifecycle

import (
	"log/slog"
	"time"
)

// CompletionHandler is told when a command finishes.
//
// Implementations must be safe for nil receivers; the wrappers check for
// nil before calling.
type CompletionHandler interface {
	// OnCommandComplete is called when a command finishes execution.
	OnCommandComplete(name string, success bool, duration time.Duration)
}

// Run executes fn and reports its outcome to handler.
// A nil handler runs fn untimed.
func Run(handler CompletionHandler, name string, fn func() error) error {
	if handler == nil {
		return fn()
	}

	start := time.Now()
	err := fn()
	handler.OnCommandComplete(name, err == nil, time.Since(start))
	return err
}

// LogHandler reports completions to a slog logger at info level.
type LogHandler struct {
	Logger *slog.Logger
}

// OnCommandComplete logs the command name, outcome and duration.
func (h *LogHandler) OnCommandComplete(name string, success bool, duration time.Duration) {
	if h == nil || h.Logger == nil {
		return
	}
	h.Logger.Info("command finished",
		"command", name,
		"success", success,
		"duration", duration.Round(time.Millisecond))
}

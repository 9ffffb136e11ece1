package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// FileOptions configures ConsolidateFile.
type FileOptions struct {
	// Input is the changelog to read.
	Input string
	// Output is where the consolidated document is written.
	// Ignored when DryRun is set.
	Output string
	// Now selects the current month. It must be captured once by the caller.
	Now time.Time
	// LenientDates keeps entries with invalid dates instead of failing.
	LenientDates bool
	// DryRun skips the write; the rendered document is still returned.
	DryRun bool
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// FileResult describes a ConsolidateFile run.
type FileResult struct {
	Input  string
	Output string
	// InputMissing is set when Input does not exist; nothing was written.
	InputMissing bool
	// Content is the rendered document.
	Content []byte
	Stats   Stats
}

// ConsolidateFile reads opts.Input, consolidates it, and writes the result
// to opts.Output, replacing any existing file. A missing input is not an
// error: the result has InputMissing set and no file is written.
func ConsolidateFile(opts FileOptions) (*FileResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res := &FileResult{Input: opts.Input, Output: opts.Output}

	src, err := os.ReadFile(opts.Input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.InputMissing = true
			return res, nil
		}
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	result, err := Consolidate(src, opts.Now,
		WithLenientDates(opts.LenientDates),
		WithLogger(logger.With("file", opts.Input)),
	)
	if err != nil {
		return nil, fmt.Errorf("consolidating %s: %w", opts.Input, err)
	}

	res.Content = result.Bytes()
	res.Stats = Summarize(result)
	logger.Debug("consolidated changelog",
		"input", opts.Input,
		"entries", res.Stats.Entries,
		"kept", res.Stats.KeptEntries,
		"months", res.Stats.Months)

	if opts.DryRun {
		return res, nil
	}

	if err := os.WriteFile(opts.Output, res.Content, 0o644); err != nil {
		return nil, fmt.Errorf("writing consolidated changelog: %w", err)
	}

	return res, nil
}

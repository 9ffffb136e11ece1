// Package batch consolidates many changelogs at once. Patterns support
// "**" to match changelogs anywhere below a directory, and files are
// processed concurrently with a fixed upper bound.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Options configures Run.
type Options struct {
	// Files are the changelogs to consolidate, usually from Expand.
	Files []string
	// OutputName is the base name of the file written next to each input.
	OutputName string
	// Parallel is the maximum number of files processed at once.
	Parallel int
	// Now selects the current month for every file in the batch.
	Now time.Time
	// LenientDates keeps entries with invalid dates instead of failing.
	LenientDates bool
	// DryRun renders without writing.
	DryRun bool
	// Logger receives per-file diagnostics. Nil discards them.
	Logger *slog.Logger
	// Progress, if set, is called after each file with the number done so far.
	// It may be called from several goroutines.
	Progress func(done, total int)
}

// Outcome is the result for one file, in the same position as its input.
type Outcome struct {
	Input  string
	Output string
	Stats  changelog.Stats
}

// Expand resolves patterns into a sorted, de-duplicated list of files.
// Files whose base name equals outputName are skipped so a second batch
// never consolidates its own outputs.
func Expand(patterns []string, outputName string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}

		for _, match := range matches {
			clean := filepath.Clean(match)
			if seen[clean] || filepath.Base(clean) == outputName {
				continue
			}
			seen[clean] = true
			files = append(files, clean)
		}
	}

	sort.Strings(files)
	return files, nil
}

// OutputPath returns where the consolidated form of input is written.
func OutputPath(input, outputName string) string {
	return filepath.Join(filepath.Dir(input), outputName)
}

// Run consolidates every file in opts.Files. The first failure cancels
// files that have not started yet and is returned.
func Run(ctx context.Context, opts Options) ([]Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}

	outcomes := make([]Outcome, len(opts.Files))
	var done atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, input := range opts.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			outcome, err := consolidateOne(input, opts, logger)
			if err != nil {
				return err
			}
			outcomes[i] = outcome

			n := int(done.Add(1))
			if opts.Progress != nil {
				opts.Progress(n, len(opts.Files))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// consolidateOne processes a single file of the batch.
func consolidateOne(input string, opts Options, logger *slog.Logger) (Outcome, error) {
	output := OutputPath(input, opts.OutputName)

	res, err := changelog.ConsolidateFile(changelog.FileOptions{
		Input:        input,
		Output:       output,
		Now:          opts.Now,
		LenientDates: opts.LenientDates,
		DryRun:       opts.DryRun,
		Logger:       logger,
	})
	if err != nil {
		return Outcome{}, err
	}
	if res.InputMissing {
		return Outcome{}, fmt.Errorf("%s disappeared before it could be read", input)
	}

	logger.Info("consolidated", "input", input, "output", output, "months", res.Stats.Months)
	return Outcome{Input: input, Output: output, Stats: res.Stats}, nil
}

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/chlog/internal/batch"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/progress"
	"github.com/spf13/cobra"
)

var (
	batchParallelFlag int
	batchDryRunFlag   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <pattern>...",
	Short: "Consolidate every changelog matching the patterns",
	Long: `Consolidate many changelogs at once.

Each pattern may use ** to match any number of directories. Every matched
file is consolidated into a file next to it, named like the configured
output (CHANGELOG_Consolidated.md by default). Files with that name are
never used as input.

All files share one notion of the current month. The first failure stops
the batch.

Exit Codes:
  0 - Success
  1 - A file could not be consolidated
  3 - Invalid arguments (bad pattern or --parallel)
  4 - No file matched`,
	Example: `  # Every changelog in a monorepo (quote the pattern)
  chlog batch '**/CHANGELOG.md'

  # Two directories, at most 8 files at a time
  chlog batch 'services/*/CHANGELOG.md' 'libs/**/CHANGELOG.md' --parallel 8

  # Show what would be consolidated
  chlog batch '**/CHANGELOG.md' --dry-run -v`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		parallel := s.cfg.BatchParallel
		if cmd.Flags().Changed("parallel") {
			parallel = batchParallelFlag
		}

		caps := progress.TerminalCapabilities{}
		if cmd.OutOrStdout() == os.Stdout {
			caps = progress.DetectTerminalCapabilities()
		}
		if s.plain {
			caps.SupportsColor = false
			caps.SupportsUnicode = false
		}

		return s.timed(cmd.Name(), func() error {
			return runBatch(cmd, s, args, parallel, caps)
		})
	},
}

func init() {
	batchCmd.GroupID = GroupConsolidate
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchParallelFlag, "parallel", "p", 0, "Files consolidated at once (default from batch_parallel)")
	batchCmd.Flags().BoolVar(&batchDryRunFlag, "dry-run", false, "Consolidate without writing any file")
}

func runBatch(cmd *cobra.Command, s *settings, patterns []string, parallel int, caps progress.TerminalCapabilities) error {
	out := cmd.OutOrStdout()

	if parallel < 1 || parallel > 64 {
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("--parallel must be between 1 and 64, got %d", parallel),
			"chlog batch '**/CHANGELOG.md' --parallel 4",
		)
	}

	outputName := filepath.Base(s.cfg.Output)
	files, err := batch.Expand(patterns, outputName)
	if err != nil {
		return clierrors.NewArgumentError(err.Error(), "Patterns use / separators and ** for any depth")
	}
	if len(files) == 0 {
		return clierrors.NoBatchMatches(patterns)
	}

	counter := progress.NewCounter(out, "consolidating", caps)
	counter.Start(len(files))

	outcomes, err := batch.Run(cmd.Context(), batch.Options{
		Files:        files,
		OutputName:   outputName,
		Parallel:     parallel,
		Now:          s.clock(),
		LenientDates: s.cfg.LenientDates,
		DryRun:       batchDryRunFlag,
		Logger:       s.logger,
		Progress:     counter.Update,
	})
	if err != nil {
		counter.Stop(false, "batch stopped")
		return clierrors.Wrap(err, clierrors.Runtime,
			"Fix the file named above and rerun, or use --lenient-dates")
	}

	verb := "Consolidated"
	if batchDryRunFlag {
		verb = "Would consolidate"
	}
	noun := "changelogs"
	if len(outcomes) == 1 {
		noun = "changelog"
	}
	counter.Stop(true, fmt.Sprintf("%s %d %s", verb, len(outcomes), noun))

	if verboseFlag {
		printOutcomes(out, outcomes)
	}
	return nil
}

// printOutcomes lists each file of a batch with its month count.
func printOutcomes(out io.Writer, outcomes []batch.Outcome) {
	for _, o := range outcomes {
		fmt.Fprintf(out, "  %s -> %s (%d months, %d kept entries)\n",
			o.Input, o.Output, o.Stats.Months, o.Stats.KeptEntries)
	}
}

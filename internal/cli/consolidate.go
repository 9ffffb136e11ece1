package cli

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/spf13/cobra"
)

// runConsolidate is the root command: consolidate the input once.
func runConsolidate(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	return s.timed(cmd.Name(), func() error {
		_, err := consolidateOnce(cmd.OutOrStdout(), s, stdoutFlag)
		return err
	})
}

// consolidateOnce reads the clock, consolidates s.input and reports the
// outcome on out. With toStdout the document is printed instead of written.
func consolidateOnce(out io.Writer, s *settings, toStdout bool) (*changelog.FileResult, error) {
	res, err := changelog.ConsolidateFile(changelog.FileOptions{
		Input:        s.input,
		Output:       s.output,
		Now:          s.clock(),
		LenientDates: s.cfg.LenientDates,
		DryRun:       toStdout,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, consolidationError(s.input, err)
	}

	if res.InputMissing {
		fmt.Fprintf(out, "File %s not found.\n", s.input)
		return res, nil
	}

	if toStdout {
		_, err := out.Write(res.Content)
		return res, err
	}

	printSuccess(out, s.plain, fmt.Sprintf("Successfully consolidated previous months into %s.", s.output))
	if verboseFlag {
		if err := changelog.FormatStats(res.Stats, out, changelog.FormatOptions{Plain: s.plain}); err != nil {
			return res, fmt.Errorf("formatting stats: %w", err)
		}
	}
	return res, nil
}

// consolidationError attaches remediation to a failed run.
func consolidationError(input string, err error) error {
	if changelog.IsDateError(err) {
		return clierrors.InvalidEntryDate(input, err)
	}
	return clierrors.Wrap(err, clierrors.Runtime)
}

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the consolidated changelog is up to date",
	Long: `Consolidate the changelog in memory and compare the result with the
existing consolidated file. Nothing is written.

Exit Codes:
  0 - The consolidated file is up to date
  1 - It is out of date, missing, or the changelog cannot be consolidated
  4 - The input changelog does not exist`,
	Example: `  # In CI
  chlog check

  # Against a fixed month, for reproducible results
  chlog check --now 2024-03`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return s.timed(cmd.Name(), func() error {
			return runCheck(cmd.OutOrStdout(), s)
		})
	},
}

func init() {
	checkCmd.GroupID = GroupInspect
	rootCmd.AddCommand(checkCmd)
}

func runCheck(out io.Writer, s *settings) error {
	res, err := changelog.ConsolidateFile(changelog.FileOptions{
		Input:        s.input,
		Now:          s.clock(),
		LenientDates: s.cfg.LenientDates,
		DryRun:       true,
		Logger:       s.logger,
	})
	if err != nil {
		return consolidationError(s.input, err)
	}
	if res.InputMissing {
		return clierrors.NewPrerequisiteError(
			fmt.Sprintf("File %s not found.", s.input),
			"Pass the changelog with --input",
		)
	}

	actual, err := os.ReadFile(s.output)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return clierrors.OutputMissing(s.output)
		}
		return fmt.Errorf("reading %s: %w", s.output, err)
	}

	if !bytes.Equal(res.Content, actual) {
		return clierrors.OutputOutOfSync(s.output)
	}

	printSuccess(out, s.plain, fmt.Sprintf("%s is up to date with %s", s.output, s.input))
	return nil
}

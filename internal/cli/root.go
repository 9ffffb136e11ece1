// Package cli implements the chlog command line.
package cli

import (
	"fmt"
	"io"

	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupConsolidate   = "consolidate"
	GroupInspect       = "inspect"
	GroupConfiguration = "configuration"
)

var (
	configFlag   string
	inputFlag    string
	outputFlag   string
	nowFlag      string
	lenientFlag  bool
	discoverFlag bool
	plainFlag    bool
	verboseFlag  bool
	debugFlag    bool
	stdoutFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "chlog",
	Short: "Consolidate dated changelog entries into monthly sections",
	Long: `chlog rewrites a changelog whose entries are headed by dates
(## [YYYY-MM-DD]) so that everything before the current month is merged
into one section per month (## [January 2024]), newest month first.

Entries from the current month are kept verbatim. Within a month, items
are grouped by their ### category in alphabetical order; "Fixes" and
"Fixed" are treated as the same category.

The source file is never modified. The result is written to
CHANGELOG_Consolidated.md, replacing any previous version.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHLOG_*, including a .env file)
  3. Project config (.chlog.yml)
  4. User config (~/.config/chlog/config.yml)
  5. Built-in defaults

Source: https://github.com/ariel-frischer/chlog`,
	Example: `  # Consolidate CHANGELOG.md into CHANGELOG_Consolidated.md
  chlog

  # Pretend it is March 2024
  chlog --now 2024-03

  # Print the result instead of writing it
  chlog --stdout

  # Consolidate every changelog in a monorepo
  chlog batch '**/CHANGELOG.md'

  # Fail CI when the consolidated file is stale
  chlog check`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConsolidate,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupConsolidate, Title: "Consolidation:"},
		&cobra.Group{ID: GroupInspect, Title: "Inspection:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "Config file (default: .chlog.yml)")
	pf.StringVarP(&inputFlag, "input", "i", "", "Changelog to read (default: CHANGELOG.md)")
	pf.StringVarP(&outputFlag, "output", "o", "", "File to write (default: CHANGELOG_Consolidated.md)")
	pf.StringVar(&nowFlag, "now", "", "Treat this date (YYYY-MM-DD or YYYY-MM) as today")
	pf.BoolVar(&lenientFlag, "lenient-dates", false, "Keep entries with impossible dates instead of failing")
	pf.BoolVar(&discoverFlag, "discover", false, "Look for changelog.md or the repository root changelog when the input is missing")
	pf.BoolVar(&plainFlag, "plain", false, "Plain output (no colors/icons)")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "Show statistics and progress details")
	pf.BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.Flags().BoolVar(&stdoutFlag, "stdout", false, "Print the consolidated changelog instead of writing it")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.NewArgumentError(err.Error(), "Run 'chlog --help' for usage")
	})
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError renders err for the user. Errors created by NewExitError
// have already been reported and print nothing.
func printError(w io.Writer, err error) {
	if _, ok := err.(*exitError); ok {
		return
	}

	plain := plainFlag || color.NoColor
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr, plain)
		return
	}

	clierrors.FprintSimpleError(w, err, clierrors.Runtime, plain)
}

// printSuccess prints msg with a green check mark, or bare when plain.
func printSuccess(w io.Writer, plain bool, msg string) {
	if plain {
		fmt.Fprintln(w, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), msg)
}

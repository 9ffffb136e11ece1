package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	outlineFormatFlag string
	outlineStatsFlag  bool
)

var outlineCmd = &cobra.Command{
	Use:   "outline [file]",
	Short: "Show the sections and categories of a changelog",
	Long: `Show the level-2 sections of a changelog, the categories beneath each,
and how many items they hold.

Without a file argument the consolidated output is shown if it exists,
otherwise the input changelog.

Exit Codes:
  0 - Success
  1 - The file could not be consolidated (--stats)
  3 - Invalid arguments (unknown format)
  4 - The file does not exist`,
	Example: `  # Outline the consolidated changelog
  chlog outline

  # Outline a specific file with consolidation statistics
  chlog outline CHANGELOG.md --stats

  # Machine-readable output
  chlog outline --format yaml`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return runOutline(cmd.OutOrStdout(), s, args)
	},
}

func init() {
	outlineCmd.GroupID = GroupInspect
	rootCmd.AddCommand(outlineCmd)

	outlineCmd.Flags().StringVar(&outlineFormatFlag, "format", "text", "Output format: text or yaml")
	outlineCmd.Flags().BoolVar(&outlineStatsFlag, "stats", false, "Also show what consolidating the file would produce")
}

// outlineReport is the yaml form of an outline.
type outlineReport struct {
	File     string              `yaml:"file"`
	Sections []changelog.Section `yaml:"sections"`
	Stats    *changelog.Stats    `yaml:"stats,omitempty"`
}

func runOutline(out io.Writer, s *settings, args []string) error {
	if outlineFormatFlag != "text" && outlineFormatFlag != "yaml" {
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("unknown format %q", outlineFormatFlag),
			"chlog outline --format yaml",
			"Valid formats: text, yaml",
		)
	}

	path := outlineTarget(s, args)
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return clierrors.NewPrerequisiteError(
				fmt.Sprintf("%s does not exist", path),
				"Run 'chlog' to generate the consolidated changelog",
			)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	report := outlineReport{File: path, Sections: changelog.Outline(src)}
	if outlineStatsFlag {
		result, err := changelog.Consolidate(src, s.clock(),
			changelog.WithLenientDates(s.cfg.LenientDates),
			changelog.WithLogger(s.logger))
		if err != nil {
			return consolidationError(path, err)
		}
		stats := changelog.Summarize(result)
		report.Stats = &stats
	}

	if outlineFormatFlag == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding outline: %w", err)
		}
		return enc.Close()
	}

	opts := changelog.FormatOptions{Plain: s.plain}
	if len(report.Sections) == 0 {
		fmt.Fprintf(out, "No sections found in %s.\n", path)
	} else if err := changelog.FormatOutline(report.Sections, out, opts); err != nil {
		return fmt.Errorf("formatting outline: %w", err)
	}

	if report.Stats != nil {
		return changelog.FormatStats(*report.Stats, out, opts)
	}
	return nil
}

// outlineTarget picks the file to outline: the argument, else the output
// when it exists, else the input.
func outlineTarget(s *settings, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	if fileExists(s.output) {
		return s.output
	}
	return s.input
}

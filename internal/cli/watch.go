package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/chlog/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-consolidate whenever the changelog changes",
	Long: `Consolidate the changelog, then do it again every time the file is
saved, until interrupted with Ctrl+C.

Changes are debounced (watch_debounce, 500ms by default) so an editor
saving in several steps triggers a single run. A failed run is reported
and the watch continues.`,
	Example: `  # Keep CHANGELOG_Consolidated.md up to date while editing
  chlog watch

  # Watch another file with a longer debounce
  CHLOG_WATCH_DEBOUNCE=2s chlog watch -i docs/CHANGES.md`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWatch(ctx, cmd, s)
	},
}

func init() {
	watchCmd.GroupID = GroupConsolidate
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, cmd *cobra.Command, s *settings) error {
	out := cmd.OutOrStdout()

	w, err := watch.New(s.input, func(context.Context) error {
		_, err := consolidateOnce(out, s, false)
		return err
	}, watch.WithDebounce(s.cfg.WatchDebounce), watch.WithLogger(s.logger))
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", s.input)
	return w.Run(ctx)
}

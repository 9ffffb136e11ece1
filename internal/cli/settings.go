package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ariel-frischer/chlog/internal/config"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/git"
	"github.com/ariel-frischer/chlog/internal/lifecycle"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// changelogNames are tried, in order, when the configured input is missing.
var changelogNames = []string{"CHANGELOG.md", "changelog.md"}

// settings is the configuration with command-line flags applied.
type settings struct {
	cfg    *config.Configuration
	input  string
	output string
	now    time.Time // fixed --now value; zero means read the clock
	plain  bool
	logger *slog.Logger
}

// clock returns the time a single run should treat as now.
func (s *settings) clock() time.Time {
	if !s.now.IsZero() {
		return s.now
	}
	return time.Now()
}

// timed runs fn and logs its duration under name.
func (s *settings) timed(name string, fn func() error) error {
	return lifecycle.Run(&lifecycle.LogHandler{Logger: s.logger}, name, fn)
}

// loadSettings loads configuration and applies the flags that were set.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	logger := newLogger(cmd.ErrOrStderr(), verboseFlag, debugFlag)
	if debugFlag {
		git.SetDebugLogger(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		})
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: configFlag,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = inputFlag
	}
	if flags.Changed("output") {
		cfg.Output = outputFlag
	}
	if flags.Changed("lenient-dates") {
		cfg.LenientDates = lenientFlag
	}
	if flags.Changed("plain") {
		cfg.Plain = plainFlag
	}
	if flags.Changed("discover") {
		cfg.Discover = discoverFlag
	}

	now, err := parseNow(nowFlag)
	if err != nil {
		return nil, err
	}

	inputSet := flags.Changed("input") || cfg.Input != config.DefaultInput
	outputSet := flags.Changed("output") || cfg.Output != config.DefaultOutput

	input := cfg.Input
	if cfg.Discover && !inputSet {
		input = discoverInput(cfg.Input, logger)
	}
	output := cfg.Output
	if input != cfg.Input && !outputSet {
		output = filepath.Join(filepath.Dir(input), cfg.Output)
	}
	if samePath(input, output) {
		return nil, clierrors.SameInputOutput(input)
	}

	if cfg.Plain {
		color.NoColor = true
	}

	logger.Debug("settings resolved", "input", input, "output", output, "lenient_dates", cfg.LenientDates)
	return &settings{
		cfg:    cfg,
		input:  input,
		output: output,
		now:    now,
		plain:  cfg.Plain || color.NoColor,
		logger: logger,
	}, nil
}

// newLogger returns a text logger on w. Warnings are always shown,
// verbose adds info and debug adds everything.
func newLogger(w io.Writer, verbose, debug bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseNow parses a --now value. A month alone means its first day.
// The empty string yields the zero time.
func parseNow(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, clierrors.InvalidNowValue(value)
}

// discoverInput returns the changelog to read when the default input is
// missing: a known name in the working directory, then at the root of the
// enclosing git repository. It returns input when nothing is found.
func discoverInput(input string, logger *slog.Logger) string {
	if fileExists(input) {
		return input
	}

	for _, name := range changelogNames {
		if fileExists(name) {
			logger.Info("using changelog", "file", name)
			return name
		}
	}

	if !git.IsGitRepository("") {
		logger.Debug("not in a git repository, no changelog discovered")
		return input
	}
	root, err := git.RepositoryRoot("")
	if err != nil {
		logger.Debug("locating repository root", "error", err)
		return input
	}

	for _, name := range changelogNames {
		candidate := filepath.Join(root, name)
		if fileExists(candidate) {
			logger.Info("using changelog at repository root", "file", candidate)
			return candidate
		}
	}
	return input
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

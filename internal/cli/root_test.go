// Package cli tests the root command, its flags and the consolidate run.
// Related: internal/cli/root.go, internal/cli/consolidate.go, internal/cli/settings.go
// Tags: cli, root, commands, global-flags
package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/chlog/internal/config"
	"github.com/fatih/color"
	gogit "github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChangelog = "# Changelog\n" +
	"## [2024-03-02]\n" +
	"### Added\n" +
	"- current\n" +
	"## [2024-01-15]\n" +
	"### Added\n" +
	"- Thing A\n" +
	"## [2024-01-20]\n" +
	"### Fixes\n" +
	"- Bug fix\n"

const sampleConsolidated = "# Changelog\n" +
	"\n## [2024-03-02]\n\n### Added\n\n- current\n" +
	"\n## [January 2024]\n\n### Added\n\n- Thing A\n### Fixed\n\n- Bug fix\n"

// workspace moves the test into an empty directory with no user config
// and no CHLOG_* variables.
func workspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".xdg"))
	for _, key := range config.SortedKeys() {
		t.Setenv(key.EnvVar(), "")
		os.Unsetenv(key.EnvVar())
	}
	t.Chdir(dir)

	origNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = origNoColor })

	return dir
}

// resetFlags restores every flag of cmd and its children to its default,
// since commands are package-level and keep state between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// execute runs chlog with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "chlog", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "CHANGELOG_Consolidated.md")
	assert.Contains(t, rootCmd.Example, "chlog batch")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := map[string]struct {
		flagName  string
		shorthand string
	}{
		"config":        {flagName: "config"},
		"input":         {flagName: "input", shorthand: "i"},
		"output":        {flagName: "output", shorthand: "o"},
		"now":           {flagName: "now"},
		"lenient-dates": {flagName: "lenient-dates"},
		"discover":      {flagName: "discover"},
		"plain":         {flagName: "plain"},
		"verbose":       {flagName: "verbose", shorthand: "v"},
		"debug":         {flagName: "debug"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}

	assert.NotNil(t, rootCmd.Flags().Lookup("stdout"))
}

func TestRootCmd_SubcommandGroups(t *testing.T) {
	groupIDs := make(map[string]bool)
	for _, g := range rootCmd.Groups() {
		groupIDs[g.ID] = true
	}

	for _, sub := range rootCmd.Commands() {
		if sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		assert.True(t, groupIDs[sub.GroupID], "%s should belong to a known group", sub.Name())
	}
}

func TestConsolidate_WritesOutput(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "CHANGELOG.md"), sampleChangelog)

	out, err := execute(t, "--now", "2024-03-15")
	require.NoError(t, err)

	assert.Equal(t, "Successfully consolidated previous months into CHANGELOG_Consolidated.md.\n", out)
	assert.Equal(t, sampleConsolidated, readFile(t, filepath.Join(dir, "CHANGELOG_Consolidated.md")))
	assert.Equal(t, sampleChangelog, readFile(t, filepath.Join(dir, "CHANGELOG.md")), "input must not change")
}

func TestConsolidate_MonthOnlyNow(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "CHANGELOG.md"), sampleChangelog)

	_, err := execute(t, "--now", "2024-03")
	require.NoError(t, err)
	assert.Equal(t, sampleConsolidated, readFile(t, filepath.Join(dir, "CHANGELOG_Consolidated.md")))
}

func TestConsolidate_OverwritesExistingOutput(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "CHANGELOG.md"), sampleChangelog)
	writeFile(t, filepath.Join(dir, "CHANGELOG_Consolidated.md"), "stale content that is much longer than the new document\n")

	_, err := execute(t, "--now", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, sampleConsolidated, readFile(t, filepath.Join(dir, "CHANGELOG_Consolidated.md")))
}

func TestConsolidate_MissingInput(t *testing.T) {
	dir := workspace(t)

	out, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, "File CHANGELOG.md not found.\n", out)
	assert.NoFileExists(t, filepath.Join(dir, "CHANGELOG_Consolidated.md"))
}

func TestConsolidate_Stdout(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "CHANGELOG.md"), sampleChangelog)

	out, err := execute(t, "--now", "2024-03-15", "--stdout")
	require.NoError(t, err)
	assert.Equal(t, sampleConsolidated, out)
	assert.NoFileExists(t, filepath.Join(dir, "CHANGELOG_Consolidated.md"))
}

func TestConsolidate_CustomPaths(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "docs", "CHANGES.md"), sampleChangelog)

	out, err := execute(t, "-i", "docs/CHANGES.md", "-o", "docs/MONTHLY.md", "--now", "2024-03-15")
	require.NoError(t, err)
	assert.Contains(t, out, "docs/MONTHLY.md")
	assert.Equal(t, sampleConsolidated, readFile(t, filepath.Join(dir, "docs", "MONTHLY.md")))
}

func TestConsolidate_ConfigFromEnv(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "HISTORY.md"), sampleChangelog)
	t.Setenv("CHLOG_INPUT", "HISTORY.md")
	t.Setenv("CHLOG_OUTPUT", "HISTORY_Consolidated.md")

	_, err := execute(t, "--now", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, sampleConsolidated, readFile(t, filepath.Join(dir, "HISTORY_Consolidated.md")))
}

func TestConsolidate_Verbose(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "CHANGELOG.md"), sampleChangelog)

	out, err := execute(t, "--now", "2024-03-15", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "1 entry kept, 2 entries merged into 1 month, 3 items total")
}

func TestConsolidate_InvalidDate(t *testing.T) {
	src := "# Log\n## [2024-02-30]\n### Added\n- impossible\n"

	t.Run("fails by default", func(t *testing.T) {
		dir := workspace(t)
		writeFile(t, filepath.Join(dir, "CHANGELOG.md"), src)

		_, err := execute(t, "--now", "2024-03-15")
		require.Error(t, err)
		assert.Equal(t, ExitFailed, ExitCode(err))
		assert.Contains(t, err.Error(), "2024-02-30")
		assert.NoFileExists(t, filepath.Join(dir, "CHANGELOG_Consolidated.md"))
	})

	t.Run("kept when lenient", func(t *testing.T) {
		dir := workspace(t)
		writeFile(t, filepath.Join(dir, "CHANGELOG.md"), src)

		_, err := execute(t, "--now", "2024-03-15", "--lenient-dates")
		require.NoError(t, err)
		assert.Equal(t, "# Log\n\n## [2024-02-30]\n\n### Added\n\n- impossible\n",
			readFile(t, filepath.Join(dir, "CHANGELOG_Consolidated.md")))
	})
}

func TestConsolidate_ArgumentErrors(t *testing.T) {
	tests := map[string]struct {
		args []string
	}{
		"bad now":           {args: []string{"--now", "March"}},
		"same input output": {args: []string{"-i", "x.md", "-o", "./x.md"}},
		"unknown flag":      {args: []string{"--bogus"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			workspace(t)

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitInvalidArguments, ExitCode(err))
		})
	}
}

func TestConsolidate_Discovery(t *testing.T) {
	tests := map[string]struct {
		args       []string
		wantOut    string
		wantOutput bool
	}{
		"off by default": {
			args:    []string{"--now", "2024-03-15"},
			wantOut: "File CHANGELOG.md not found.\n",
		},
		"lowercase name with --discover": {
			args:       []string{"--now", "2024-03-15", "--discover"},
			wantOutput: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := workspace(t)
			writeFile(t, filepath.Join(dir, "changelog.md"), sampleChangelog)

			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			output := filepath.Join(dir, "CHANGELOG_Consolidated.md")
			if !tt.wantOutput {
				assert.Equal(t, tt.wantOut, out)
				assert.NoFileExists(t, output)
				return
			}
			assert.Equal(t, sampleConsolidated, readFile(t, output))
		})
	}
}

func TestConsolidate_RepositorySubdirectory(t *testing.T) {
	tests := map[string]struct {
		args       []string
		wantOutput bool
	}{
		"missing input without discovery": {args: []string{"--now", "2024-03-15"}},
		"repository root with --discover": {args: []string{"--now", "2024-03-15", "--discover"}, wantOutput: true},
		"repository root from config":     {args: []string{"--now", "2024-03-15", "--config", "../../.chlog.yml"}, wantOutput: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := workspace(t)
			_, err := gogit.PlainInit(dir, false)
			require.NoError(t, err)
			writeFile(t, filepath.Join(dir, "CHANGELOG.md"), sampleChangelog)
			writeFile(t, filepath.Join(dir, ".chlog.yml"), "discover: true\n")
			sub := filepath.Join(dir, "pkg", "sub")
			require.NoError(t, os.MkdirAll(sub, 0o755))
			t.Chdir(sub)

			out, err := execute(t, tt.args...)
			require.NoError(t, err)

			rootOutput := filepath.Join(dir, "CHANGELOG_Consolidated.md")
			assert.NoFileExists(t, filepath.Join(sub, "CHANGELOG_Consolidated.md"))
			if !tt.wantOutput {
				assert.Equal(t, "File CHANGELOG.md not found.\n", out)
				assert.NoFileExists(t, rootOutput)
				return
			}
			assert.Equal(t, sampleConsolidated, readFile(t, rootOutput))
		})
	}
}

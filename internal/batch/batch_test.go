package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outputName = "CHANGELOG_Consolidated.md"

func writeChangelog(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExpand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeChangelog(t, filepath.Join(root, "CHANGELOG.md"), "")
	writeChangelog(t, filepath.Join(root, "svc", "a", "CHANGELOG.md"), "")
	writeChangelog(t, filepath.Join(root, "svc", "b", "CHANGELOG.md"), "")
	writeChangelog(t, filepath.Join(root, "svc", "b", outputName), "")
	writeChangelog(t, filepath.Join(root, "svc", "b", "README.md"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "svc", "CHANGELOG.md.d"), 0o755))

	tests := map[string]struct {
		patterns []string
		want     []string
	}{
		"recursive": {
			patterns: []string{filepath.Join(root, "**", "CHANGELOG.md")},
			want: []string{
				filepath.Join(root, "CHANGELOG.md"),
				filepath.Join(root, "svc", "a", "CHANGELOG.md"),
				filepath.Join(root, "svc", "b", "CHANGELOG.md"),
			},
		},
		"outputs skipped": {
			patterns: []string{filepath.Join(root, "svc", "b", "*.md")},
			want: []string{
				filepath.Join(root, "svc", "b", "CHANGELOG.md"),
				filepath.Join(root, "svc", "b", "README.md"),
			},
		},
		"overlapping patterns deduplicated": {
			patterns: []string{
				filepath.Join(root, "svc", "*", "CHANGELOG.md"),
				filepath.Join(root, "svc", "a", "CHANGELOG.md"),
			},
			want: []string{
				filepath.Join(root, "svc", "a", "CHANGELOG.md"),
				filepath.Join(root, "svc", "b", "CHANGELOG.md"),
			},
		},
		"no matches": {
			patterns: []string{filepath.Join(root, "nothing", "*.md")},
			want:     nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Expand(tt.patterns, outputName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := Expand([]string{"[unclosed"}, outputName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var files []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		path := filepath.Join(root, name, "CHANGELOG.md")
		writeChangelog(t, path, "# "+name+"\n## [2024-01-10]\n### Added\n- "+name+"\n")
		files = append(files, path)
	}

	var mu sync.Mutex
	var progress []int

	outcomes, err := Run(context.Background(), Options{
		Files:      files,
		OutputName: outputName,
		Parallel:   2,
		Now:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 5, total)
			progress = append(progress, done)
		},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	for i, outcome := range outcomes {
		assert.Equal(t, files[i], outcome.Input)
		assert.Equal(t, filepath.Join(filepath.Dir(files[i]), outputName), outcome.Output)
		assert.Equal(t, 1, outcome.Stats.Months)

		written, err := os.ReadFile(outcome.Output)
		require.NoError(t, err)
		assert.Contains(t, string(written), "## [January 2024]")
	}

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, progress)
}

func TestRun_FailureStopsBatch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	good := filepath.Join(root, "good", "CHANGELOG.md")
	bad := filepath.Join(root, "bad", "CHANGELOG.md")
	writeChangelog(t, good, "## [2024-01-10]\n- ok\n")
	writeChangelog(t, bad, "## [2024-02-30]\n- broken\n")

	_, err := Run(context.Background(), Options{
		Files:      []string{bad, good},
		OutputName: outputName,
		Parallel:   1,
		Now:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, changelog.IsDateError(err))
	assert.NoFileExists(t, OutputPath(bad, outputName))
}

func TestRun_LenientAndDryRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	bad := filepath.Join(root, "CHANGELOG.md")
	writeChangelog(t, bad, "## [2024-02-30]\n- kept\n")

	outcomes, err := Run(context.Background(), Options{
		Files:        []string{bad},
		OutputName:   outputName,
		Now:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		LenientDates: true,
		DryRun:       true,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 1, outcomes[0].Stats.KeptEntries)
	assert.NoFileExists(t, outcomes[0].Output)
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "CHANGELOG.md")
	writeChangelog(t, path, "## [2024-01-10]\n- a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Files: []string{path}, OutputName: outputName, Now: time.Now()})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, OutputPath(path, outputName))
}

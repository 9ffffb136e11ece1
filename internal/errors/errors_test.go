package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {category: Argument, want: "Argument Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"prerequisite":  {category: Prerequisite, want: "Prerequisite Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"unknown":       {category: ErrorCategory(42), want: "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")

	wrapped := WrapWithMessage(cause, Runtime, "writing output")
	require.NotNil(t, wrapped)
	assert.Equal(t, "writing output: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "x"))
}

func TestAsCLIError_FindsWrapped(t *testing.T) {
	t.Parallel()

	cliErr := NewPrerequisiteError("missing")
	err := fmt.Errorf("running batch: %w", cliErr)

	assert.True(t, IsCLIError(err))
	assert.Same(t, cliErr, AsCLIError(err))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	err := InvalidNowValue("yesterday")
	got := FormatErrorPlain(err)

	want := "Error [Argument Error]: invalid --now value \"yesterday\"\n" +
		"\n" +
		"Usage: chlog --now 2024-03-15\n" +
		"\n" +
		"To fix this:\n" +
		"  • Use a date as YYYY-MM-DD or a month as YYYY-MM\n"
	assert.Equal(t, want, got)
}

func TestFprintError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintError(&buf, NoBatchMatches([]string{"a/*.md", "b/**"}), true)
	assert.Contains(t, buf.String(), "Error [Prerequisite Error]: no changelog files match a/*.md, b/**")
	assert.Contains(t, buf.String(), "To fix this:")

	buf.Reset()
	FprintError(&buf, nil, true)
	assert.Empty(t, buf.String())

	FprintSimpleError(&buf, stderrors.New("boom"), Runtime, true)
	assert.Equal(t, "Error [Runtime Error]: boom\n", buf.String())
}

func TestMessages_Categories(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("bad")
	tests := map[string]struct {
		err  *CLIError
		want ErrorCategory
	}{
		"invalid entry date": {err: InvalidEntryDate("CHANGELOG.md", cause), want: Runtime},
		"invalid now":        {err: InvalidNowValue("x"), want: Argument},
		"invalid config":     {err: InvalidConfig(cause), want: Configuration},
		"same input output":  {err: SameInputOutput("a.md"), want: Argument},
		"no batch matches":   {err: NoBatchMatches([]string{"*.md"}), want: Prerequisite},
		"out of sync":        {err: OutputOutOfSync("out.md"), want: Runtime},
		"output missing":     {err: OutputMissing("out.md"), want: Runtime},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Category)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}

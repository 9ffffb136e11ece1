package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
		"not a terminal": {
			caps: TerminalCapabilities{},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestCounter_NonTTY(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ok   bool
		want string
	}{
		"success": {ok: true, want: "[OK] 3 changelogs consolidated\n"},
		"failure": {ok: false, want: "[FAIL] 3 changelogs consolidated\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			c := NewCounter(&buf, "consolidating", TerminalCapabilities{})
			c.Start(3)
			c.Update(1, 3)
			c.Update(3, 3)
			c.Stop(tt.ok, "3 changelogs consolidated")

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDetect_NotATerminal(t *testing.T) {
	t.Parallel()

	caps := detect(-1)
	assert.False(t, caps.IsTTY)
	assert.False(t, caps.SupportsColor)
	assert.Zero(t, caps.Width)
}

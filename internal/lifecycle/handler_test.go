package lifecycle

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	name     string
	success  bool
	duration time.Duration
	calls    int
}

func (r *recordingHandler) OnCommandComplete(name string, success bool, duration time.Duration) {
	r.name = name
	r.success = success
	r.duration = duration
	r.calls++
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		fnErr       error
		wantSuccess bool
	}{
		"success": {fnErr: nil, wantSuccess: true},
		"failure": {fnErr: errors.New("boom"), wantSuccess: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h := &recordingHandler{}
			err := Run(h, "batch", func() error {
				time.Sleep(5 * time.Millisecond)
				return tt.fnErr
			})

			assert.Equal(t, tt.fnErr, err)
			assert.Equal(t, 1, h.calls)
			assert.Equal(t, "batch", h.name)
			assert.Equal(t, tt.wantSuccess, h.success)
			assert.GreaterOrEqual(t, h.duration, 5*time.Millisecond)
		})
	}
}

func TestRun_NilHandler(t *testing.T) {
	t.Parallel()

	called := false
	err := Run(nil, "check", func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestLogHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := &LogHandler{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	h.OnCommandComplete("chlog", true, 1500*time.Microsecond)

	assert.Contains(t, buf.String(), "command finished")
	assert.Contains(t, buf.String(), "command=chlog")
	assert.Contains(t, buf.String(), "success=true")
	assert.Contains(t, buf.String(), "duration=2ms")

	var nilHandler *LogHandler
	assert.NotPanics(t, func() { nilHandler.OnCommandComplete("x", false, 0) })
}

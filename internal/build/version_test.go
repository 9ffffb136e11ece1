package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortCommit(t *testing.T) {
	tests := map[string]struct {
		commit string
		want   string
	}{
		"long hash":  {commit: "0123456789abcdef", want: "01234567"},
		"short hash": {commit: "abc", want: "abc"},
		"unknown":    {commit: "unknown", want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			orig := Commit
			Commit = tt.commit
			defer func() { Commit = orig }()

			assert.Equal(t, tt.want, ShortCommit())
		})
	}
}

func TestString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	Version, Commit = "v1.2.3", "0123456789abcdef"
	defer func() { Version, Commit = origVersion, origCommit }()

	assert.Equal(t, "chlog v1.2.3 (01234567)", String())
	assert.False(t, IsDevBuild())
}

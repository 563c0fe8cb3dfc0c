package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("FINSIGHT_TEST_DIR", "/tmp/finsight")

	home, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", home)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty path", input: "", want: ""},
		{name: "absolute path untouched", input: "/var/data/app.db", want: "/var/data/app.db"},
		{name: "tilde expansion", input: "~/data/app.db", want: filepath.Join(home, "data/app.db")},
		{name: "bare tilde", input: "~", want: home},
		{name: "env var expansion", input: "$FINSIGHT_TEST_DIR/app.db", want: "/tmp/finsight/app.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("expands tilde prefix", func(t *testing.T) {
		got := ExpandHome("~/foo/bar.yaml")
		require.Equal(t, filepath.Join(home, "foo/bar.yaml"), got)
	})

	t.Run("leaves absolute paths alone", func(t *testing.T) {
		require.Equal(t, "/tmp/x.yaml", ExpandHome("/tmp/x.yaml"))
	})

	t.Run("leaves relative paths alone", func(t *testing.T) {
		require.Equal(t, "x.yaml", ExpandHome("x.yaml"))
	})

	t.Run("bare tilde is not expanded", func(t *testing.T) {
		require.Equal(t, "~", ExpandHome("~"))
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POSTALL_ROOT", dir)

	paths, err := DefaultPaths()
	require.NoError(t, err)

	assert.Equal(t, dir, paths.Root)
	assert.Equal(t, filepath.Join(dir, "default.settings"), paths.DefaultSettings)
}

func TestDefaultPaths_Home(t *testing.T) {
	t.Setenv("POSTALL_ROOT", "")

	paths, err := DefaultPaths()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".postall"), paths.Root)
}

func TestEnsureDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "postall")
	t.Setenv("POSTALL_ROOT", root)

	paths, err := DefaultPaths()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

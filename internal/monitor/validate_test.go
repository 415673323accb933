package monitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ocmon/internal/config"
)

func TestValidateNoSources(t *testing.T) {
	t.Setenv("OPENCODE_DATA", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	res := Validate(config.Config{})

	require.False(t, res.Valid)
	require.NotEmpty(t, res.Issues)
	require.False(t, res.Database.Available)
	require.False(t, res.Files.Available)
}

func TestValidateFindsFileStore(t *testing.T) {
	data := t.TempDir()
	t.Setenv("OPENCODE_DATA", data)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	msgDir := filepath.Join(data, "storage", "message", "ses_abc")
	require.NoError(t, os.MkdirAll(msgDir, 0o755))

	res := Validate(config.Config{})

	require.True(t, res.Valid)
	require.Empty(t, res.Issues)
	require.True(t, res.Files.Available)
	require.Equal(t, 1, res.Files.Sessions)
	require.False(t, res.Database.Available)
}

func TestValidateWarnsOnEmptyStore(t *testing.T) {
	data := t.TempDir()
	t.Setenv("OPENCODE_DATA", data)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, os.MkdirAll(filepath.Join(data, "storage", "message"), 0o755))

	res := Validate(config.Config{})

	require.True(t, res.Valid)
	require.Equal(t, 0, res.Files.Sessions)
	require.NotEmpty(t, res.Warnings)
}

func TestValidateHonorsStorageOverride(t *testing.T) {
	t.Setenv("OPENCODE_DATA", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	override := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(override, "ses_one"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(override, "ses_two"), 0o755))

	var cfg config.Config
	cfg.Paths.StorageDir = override

	res := Validate(cfg)

	require.True(t, res.Files.Available)
	require.Equal(t, override, res.Files.Path)
	require.Equal(t, 2, res.Files.Sessions)
}

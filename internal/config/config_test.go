package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.TimeoutSecs)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.True(t, cfg.ShuffleCards)
	assert.Equal(t, 0.9, cfg.DesiredRetention)
	require.Len(t, cfg.PauseChord, 1)
	require.Len(t, cfg.QuitChord, 1)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeout_secs = 20
shuffle_cards = false
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.TimeoutSecs)
	assert.False(t, cfg.ShuffleCards)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("KBSR_TIMEOUT_SECS", "42")
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.TimeoutSecs)
}

func TestLoadFailsFastOnMalformedPauseKeybind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`pause_keybind = "Foo+Bar"`), 0o644))

	_, err := Load(path, nil)
	require.Error(t, err)
}

func TestLoadValidatesNumericRanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`desired_retention = 1.5`), 0o644))

	_, err := Load(path, nil)
	require.Error(t, err)
}

func TestLoadResolvesXDGDefaultsWhenUnset(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DecksDir)
	assert.NotEmpty(t, cfg.DBPath)
}

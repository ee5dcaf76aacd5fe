package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[simulation]
tick_rate = "33ms"
half_extent = 5000.0

[unit]
speed = 4.0

[logging]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 33*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, 5000.0, cfg.Simulation.HalfExtent)
	assert.Equal(t, 4.0, cfg.Unit.Speed)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched keys keep their defaults
	assert.Equal(t, 20.0, cfg.Unit.GroundY)
	assert.Equal(t, 1000.0, cfg.Simulation.GridCellSize)
	assert.NotZero(t, cfg.Server.StartTime)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[simulation]
half_extent = 10.0
`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "half_extent")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "read config")
}

func TestDefaultsAreValid(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "arena.toml"))
	require.NoError(t, err)

	want := Defaults()
	want.Server.StartTime = cfg.Server.StartTime
	assert.Equal(t, want, cfg)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Calculation.LogSpeedMeasurements)
	assert.True(t, cfg.Calculation.Apply)
	assert.Equal(t, [3]int{256, 256, 130}, cfg.Reference.Dimensions)
	assert.Equal(t, [3]float64{1, 1, 1}, cfg.Reference.Spacing)
	assert.Equal(t, [3]float64{0, 0, 0}, cfg.Reference.Origin)
	assert.False(t, cfg.Logging.Debug)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	content := `calculation:
  logSpeedMeasurements: true
  apply: false
reference:
  dimensions: [128, 128, 64]
  spacing: [0.5, 0.5, 2.0]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Calculation.LogSpeedMeasurements)
	assert.False(t, cfg.Calculation.Apply)
	assert.Equal(t, [3]int{128, 128, 64}, cfg.Reference.Dimensions)
	assert.Equal(t, [3]float64{0.5, 0.5, 2.0}, cfg.Reference.Spacing)

	// Settings absent from the file keep their defaults.
	assert.Equal(t, [3]float64{0, 0, 0}, cfg.Reference.Origin)
	assert.False(t, cfg.Logging.Debug)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reference: [not, a, mapping"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calculation.LogSpeedMeasurements = true
	cfg.Reference.Dimensions = [3]int{64, 64, 32}
	cfg.Reference.Origin = [3]float64{-100, -100, -60}
	cfg.Logging.Debug = true

	// A nested path exercises directory creation on save.
	path := filepath.Join(t.TempDir(), "conf", "voxelfit.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxelfit.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

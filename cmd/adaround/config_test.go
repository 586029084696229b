package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
quant:
  n_bits: 4
  delta: [0.5, 0.25]
  zero_point: [8, 7]
mode: stochastic
soft: true
seed: 42
tensor: layer.0.weight
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Quant.NBits)
	assert.Equal(t, 16, cfg.Quant.NLevels, "levels derived from n_bits")
	assert.Equal(t, []float32{0.5, 0.25}, cfg.Quant.Delta)
	assert.Equal(t, []float32{8, 7}, cfg.Quant.ZeroPoint)
	require.NotNil(t, cfg.Mode)
	assert.Equal(t, "stochastic", *cfg.Mode)
	require.NotNil(t, cfg.Soft)
	assert.True(t, *cfg.Soft)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(42), *cfg.Seed)
	assert.Equal(t, "layer.0.weight", cfg.Tensor)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseConfig_UnsetFieldsStayNil(t *testing.T) {
	cfg, err := ParseConfig([]byte("quant:\n  n_bits: 8\n  delta: [0.1]\n"))
	require.NoError(t, err)

	assert.Nil(t, cfg.Mode)
	assert.Nil(t, cfg.Soft)
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, []float32{0}, cfg.Quant.ZeroPoint)
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Zero(t, cfg.Quant.NBits)
}

func TestParseConfig_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseConfig([]byte("quant:\n  bits: 8\n"))
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

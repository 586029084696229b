package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
quant:
  n_bits: 4
  delta: [1]
  zero_point: [0]
mode: nearest
log_level: error
`

func setup(t *testing.T) (dir, weights, config string) {
	t.Helper()
	dir = t.TempDir()
	weights = writeJSONTensor(t, dir, tensorFile{Shape: []int{4}, Data: []float32{0.4, 0.6, 1.5, 2.5}})
	config = filepath.Join(dir, "quant.yaml")
	require.NoError(t, os.WriteFile(config, []byte(testConfig), 0o600))
	return dir, weights, config
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(context.Background(), append([]string{"adaround"}, args...))
	return buf.String(), err
}

func readOutput(t *testing.T, path string) jsonOutput {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out jsonOutput
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEvaluate_ModeFromConfig(t *testing.T) {
	dir, weights, config := setup(t)
	outPath := filepath.Join(dir, "out.json")

	stdout, err := runApp(t, "evaluate", "--weights", weights, "--config", config, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "mode:           nearest")

	out := readOutput(t, outPath)
	assert.Equal(t, "nearest", out.Metadata["mode"])
	assert.Equal(t, []float32{0, 1, 2, 2}, out.Tensors["quantized"].Data)
	assert.NotEmpty(t, out.Metadata["policy"])
}

func TestEvaluate_FlagOverridesConfig(t *testing.T) {
	dir, weights, config := setup(t)
	outPath := filepath.Join(dir, "out.json")

	stdout, err := runApp(t, "evaluate", "--weights", weights, "--config", config,
		"--mode", "learned_hard_sigmoid", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "soft targets:   false")

	out := readOutput(t, outPath)
	// Residuals of exactly one half round up under the learned decision.
	assert.Equal(t, []float32{0, 1, 2, 3}, out.Tensors["quantized"].Data)
	assert.Len(t, out.Tensors["alpha"].Data, 4)
}

func TestEvaluate_InvalidMode(t *testing.T) {
	_, weights, config := setup(t)

	_, err := runApp(t, "evaluate", "--weights", weights, "--config", config, "--mode", "ceil")
	assert.ErrorContains(t, err, "wrong rounding mode")
}

func TestInspect(t *testing.T) {
	_, weights, config := setup(t)

	stdout, err := runApp(t, "inspect", "--weights", weights, "--config", config)
	require.NoError(t, err)
	assert.Contains(t, stdout, "n_bits:         4 (16 levels)")
	assert.Contains(t, stdout, "hard round up:  0.7500")
	assert.Contains(t, stdout, "non-finite:     0")
}

func TestVersion(t *testing.T) {
	stdout, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version: "+Version)
}

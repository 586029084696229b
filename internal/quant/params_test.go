package quant_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/adaround/internal/backend/cpu"
	"github.com/born-ml/adaround/internal/quant"
	"github.com/born-ml/adaround/internal/tensor"
)

func TestPerTensor_DerivesLevels(t *testing.T) {
	p := quant.PerTensor(4, 0.5, 8)

	assert.Equal(t, 16, p.NLevels)
	assert.Equal(t, float32(15), p.MaxLevel())
	require.NoError(t, p.Validate(tensor.Shape{3, 3}))
}

func TestNormalize_DefaultsAndCopies(t *testing.T) {
	delta := []float32{0.1}
	p := quant.Params{NBits: 8, Delta: delta}.Normalize()

	assert.Equal(t, 256, p.NLevels)
	assert.Equal(t, []float32{0}, p.ZeroPoint)

	delta[0] = 9
	assert.Equal(t, float32(0.1), p.Delta[0], "Normalize must copy slices")

	explicit := quant.Params{NBits: 8, NLevels: 255, Delta: delta}.Normalize()
	assert.Equal(t, 255, explicit.NLevels, "explicit level count is kept")
}

func TestValidate(t *testing.T) {
	shape := tensor.Shape{2, 4}

	tests := []struct {
		name    string
		params  quant.Params
		wantErr bool
	}{
		{"per-tensor", quant.PerTensor(8, 0.1, 0), false},
		{"per-channel", quant.Params{NBits: 8, NLevels: 256, Delta: []float32{0.1, 0.2}, ZeroPoint: []float32{0, 3}}, false},
		{"zero bits", quant.Params{NBits: 0, NLevels: 256, Delta: []float32{0.1}, ZeroPoint: []float32{0}}, true},
		{"one level", quant.Params{NBits: 1, NLevels: 1, Delta: []float32{0.1}, ZeroPoint: []float32{0}}, true},
		{"zero delta", quant.PerTensor(8, 0, 0), true},
		{"negative delta", quant.PerTensor(8, -1, 0), true},
		{"nan delta", quant.PerTensor(8, float32(math.NaN()), 0), true},
		{"inf delta", quant.PerTensor(8, float32(math.Inf(1)), 0), true},
		{"fractional zero point", quant.PerTensor(8, 0.1, 0.5), true},
		{"missing delta", quant.Params{NBits: 8, NLevels: 256, ZeroPoint: []float32{0}}, true},
		{"channel mismatch", quant.Params{NBits: 8, NLevels: 256, Delta: []float32{0.1, 0.2, 0.3}, ZeroPoint: []float32{0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate(shape)
			if tt.wantErr {
				assert.ErrorIs(t, err, quant.ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpand_PerChannel(t *testing.T) {
	backend := cpu.New()
	p := quant.Params{NBits: 8, NLevels: 256, Delta: []float32{0.5, 2}, ZeroPoint: []float32{1, 7}}

	delta, zp, err := quant.Expand(p, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{0.5, 0.5, 0.5, 2, 2, 2}, delta.Data())
	assert.Equal(t, []float32{1, 1, 1, 7, 7, 7}, zp.Data())
}

func TestExpand_RejectsInvalid(t *testing.T) {
	_, _, err := quant.Expand(quant.PerTensor(8, -1, 0), tensor.Shape{2}, cpu.New())
	assert.ErrorIs(t, err, quant.ErrInvalidParams)
}

func TestGridLevel(t *testing.T) {
	p := quant.PerTensor(2, 0.5, 1) // levels 0..3 -> values -0.5, 0, 0.5, 1

	q, ok := p.GridLevel(0.5, 0, 1e-6)
	assert.True(t, ok)
	assert.Equal(t, 2, q)

	_, ok = p.GridLevel(0.3, 0, 1e-6)
	assert.False(t, ok, "off-grid value")

	_, ok = p.GridLevel(1.5, 0, 1e-6)
	assert.False(t, ok, "level 4 is out of range")

	lo, hi := p.Range(0)
	assert.Equal(t, float32(-0.5), lo)
	assert.Equal(t, float32(1), hi)
}

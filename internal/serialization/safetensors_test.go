package serialization_test

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/adaround/internal/serialization"
	"github.com/born-ml/adaround/internal/tensor"
)

func rawFloat32(t *testing.T, shape tensor.Shape, values ...float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), values)
	return raw
}

// encode builds a SafeTensors stream from a literal header.
func encode(header string, data []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(len(header)))
	buf.WriteString(header)
	buf.Write(data)
	return buf.Bytes()
}

func TestWriteRead(t *testing.T) {
	alpha := rawFloat32(t, tensor.Shape{2, 2}, -2.4, 0, 0.4, 2.4)
	levels, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	copy(levels.AsInt32(), []int32{0, 7, 15})

	var buf bytes.Buffer
	err = serialization.Write(&buf, map[string]*tensor.RawTensor{
		"alpha":  alpha,
		"levels": levels,
	}, map[string]string{"mode": "learned_hard_sigmoid"})
	require.NoError(t, err)

	f, err := serialization.Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "levels"}, f.Names())
	assert.Equal(t, "learned_hard_sigmoid", f.Metadata()["mode"])
	assert.Len(t, f.Metadata()[serialization.ChecksumKey], 64)

	gotAlpha, err := f.Tensor("alpha")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, gotAlpha.Shape())
	assert.Equal(t, alpha.AsFloat32(), gotAlpha.AsFloat32())

	gotLevels, err := f.Tensor("levels")
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 7, 15}, gotLevels.AsInt32())

	_, err = f.Tensor("beta")
	assert.ErrorIs(t, err, serialization.ErrTensorNotFound)
}

func TestWriteFile_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.safetensors")
	w := rawFloat32(t, tensor.Shape{3}, 0.1, 0.2, 0.3)

	require.NoError(t, serialization.WriteFile(path, map[string]*tensor.RawTensor{"weight": w}, nil))

	f, err := serialization.ReadFile(path)
	require.NoError(t, err)
	got, err := f.Tensor("weight")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got.AsFloat32())
}

func TestRead_DetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	err := serialization.Write(&buf, map[string]*tensor.RawTensor{
		"w": rawFloat32(t, tensor.Shape{2}, 1, 2),
	}, nil)
	require.NoError(t, err)

	stream := buf.Bytes()
	stream[len(stream)-1] ^= 0xff

	_, err = serialization.Read(bytes.NewReader(stream))
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
}

func TestRead_WithoutChecksum(t *testing.T) {
	stream := encode(`{"w":{"dtype":"F32","shape":[1],"data_offsets":[0,4]}}`, []byte{0, 0, 128, 63})

	f, err := serialization.Read(bytes.NewReader(stream))
	require.NoError(t, err)
	w, err := f.Tensor("w")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, w.AsFloat32())
}

func TestRead_RejectsMalformedHeaders(t *testing.T) {
	data := make([]byte, 16)

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"overlap", `{"a":{"dtype":"F32","shape":[2],"data_offsets":[0,8]},"b":{"dtype":"F32","shape":[2],"data_offsets":[4,12]}}`, serialization.ErrOffsetOverlap},
		{"out of bounds", `{"a":{"dtype":"F32","shape":[8],"data_offsets":[0,32]}}`, serialization.ErrOutOfBounds},
		{"negative offset", `{"a":{"dtype":"F32","shape":[1],"data_offsets":[-4,0]}}`, serialization.ErrNegativeOffset},
		{"size mismatch", `{"a":{"dtype":"F32","shape":[3],"data_offsets":[0,8]}}`, serialization.ErrOutOfBounds},
		{"path name", `{"../a":{"dtype":"F32","shape":[1],"data_offsets":[0,4]}}`, serialization.ErrInvalidTensorName},
		{"dtype", `{"a":{"dtype":"BF16","shape":[2],"data_offsets":[0,4]}}`, serialization.ErrUnsupportedDType},
		{"shape larger than region", `{"a":{"dtype":"F32","shape":[1125899906842624],"data_offsets":[0,4]}}`, serialization.ErrOutOfBounds},
		{"shape overflows", `{"a":{"dtype":"F32","shape":[4611686018427387904,4],"data_offsets":[0,0]}}`, serialization.ErrInvalidShape},
		{"zero dimension", `{"a":{"dtype":"F32","shape":[0],"data_offsets":[0,0]}}`, serialization.ErrInvalidShape},
		{"negative dimension", `{"a":{"dtype":"F32","shape":[-1],"data_offsets":[0,4]}}`, serialization.ErrInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serialization.Read(bytes.NewReader(encode(tt.header, data)))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRead_HeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(serialization.MaxHeaderSize+1))

	_, err := serialization.Read(&buf)
	assert.ErrorIs(t, err, serialization.ErrHeaderTooLarge)
}

func TestWrite_RejectsInvalidName(t *testing.T) {
	var buf bytes.Buffer
	err := serialization.Write(&buf, map[string]*tensor.RawTensor{
		"layers/0": rawFloat32(t, tensor.Shape{1}, 1),
	}, nil)
	assert.ErrorIs(t, err, serialization.ErrInvalidTensorName)
}

func TestValidationError_Message(t *testing.T) {
	err := serialization.ValidateTensorOffsets([]serialization.TensorMeta{
		{Name: "a", Offset: 0, Size: 8},
		{Name: "b", Offset: 4, Size: 4},
	}, 16)

	var verr *serialization.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "a", verr.Tensor)
	assert.Equal(t, "b", verr.Tensor2)
	assert.Contains(t, err.Error(), "overlap")
}

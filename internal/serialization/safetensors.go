package serialization

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"

	"github.com/goccy/go-json"

	"github.com/born-ml/adaround/internal/tensor"
)

const metadataKey = "__metadata__"

// tensorHeader represents a tensor in the SafeTensors header.
type tensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// File is a decoded SafeTensors file held in memory.
type File struct {
	metadata map[string]string
	tensors  map[string]*tensor.RawTensor
}

// WriteFile writes tensors to a SafeTensors file at path.
func WriteFile(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	//nolint:gosec // G304: output path is chosen by the user
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(f, tensors, metadata); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write encodes tensors in SafeTensors format.
// Tensors are written in alphabetical order by name. The checksum of the
// data section is added to metadata under ChecksumKey.
func Write(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := slices.Sorted(maps.Keys(tensors))

	header := make(map[string]any, len(names)+1)
	var data bytes.Buffer
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		raw := tensors[name]
		dtype, err := dtypeToSafeTensors(raw.DType())
		if err != nil {
			return fmt.Errorf("tensor %q: %w", name, err)
		}

		shape := make([]int64, len(raw.Shape()))
		for i, dim := range raw.Shape() {
			shape[i] = int64(dim)
		}

		start := int64(data.Len())
		data.Write(raw.Data())
		header[name] = tensorHeader{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{start, int64(data.Len())},
		}
	}

	meta := maps.Clone(metadata)
	if meta == nil {
		meta = make(map[string]string, 1)
	}
	meta[ChecksumKey] = ComputeChecksum(data.Bytes())
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// ReadFile reads and validates a SafeTensors file.
func ReadFile(path string) (*File, error) {
	//nolint:gosec // G304: input path is chosen by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f)
}

// Read decodes a SafeTensors stream. Tensors are loaded on the CPU device.
func Read(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	file := &File{
		metadata: map[string]string{},
		tensors:  make(map[string]*tensor.RawTensor, len(entries)),
	}
	if raw, ok := entries[metadataKey]; ok {
		if err := json.Unmarshal(raw, &file.metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		delete(entries, metadataKey)
	}

	headers := make(map[string]tensorHeader, len(entries))
	metas := make([]TensorMeta, 0, len(entries))
	for name, raw := range entries {
		if err := ValidateTensorName(name); err != nil {
			return nil, err
		}
		var h tensorHeader
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("tensor %q: failed to parse header: %w", name, err)
		}
		headers[name] = h
		metas = append(metas, TensorMeta{
			Name:   name,
			Offset: h.DataOffsets[0],
			Size:   h.DataOffsets[1] - h.DataOffsets[0],
		})
	}

	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return nil, err
	}
	if sum, ok := file.metadata[ChecksumKey]; ok {
		if err := ValidateChecksum(data, sum); err != nil {
			return nil, err
		}
	}

	for name, h := range headers {
		raw, err := decodeTensor(name, h, data)
		if err != nil {
			return nil, err
		}
		file.tensors[name] = raw
	}
	return file, nil
}

func decodeTensor(name string, h tensorHeader, data []byte) (*tensor.RawTensor, error) {
	dtype, err := dtypeFromSafeTensors(h.DType)
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}

	shape, size, err := shapeAndSize(name, h.Shape, dtype.Size())
	if err != nil {
		return nil, err
	}

	start, end := h.DataOffsets[0], h.DataOffsets[1]
	if size != end-start {
		return nil, &ValidationError{
			Err:     ErrOutOfBounds,
			Tensor:  name,
			Details: fmt.Sprintf("shape %v needs %d bytes, region has %d", h.Shape, size, end-start),
		}
	}

	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}
	copy(raw.Data(), data[start:end])
	return raw, nil
}

// shapeAndSize converts a header shape and returns its byte size. Every
// dimension must be positive and the byte size must fit in an int64, so a
// header can never request an allocation larger than its data region.
func shapeAndSize(name string, dims []int64, elemSize int) (tensor.Shape, int64, error) {
	shape := make(tensor.Shape, len(dims))
	size := int64(elemSize)
	for i, dim := range dims {
		if dim <= 0 || dim > math.MaxInt {
			return nil, 0, &ValidationError{
				Err:     ErrInvalidShape,
				Tensor:  name,
				Details: fmt.Sprintf("dimension %d is %d", i, dim),
			}
		}
		if size > math.MaxInt64/dim {
			return nil, 0, &ValidationError{
				Err:     ErrInvalidShape,
				Tensor:  name,
				Details: fmt.Sprintf("shape %v overflows", dims),
			}
		}
		size *= dim
		shape[i] = int(dim)
	}
	return shape, size, nil
}

// Names returns the tensor names in alphabetical order.
func (f *File) Names() []string {
	return slices.Sorted(maps.Keys(f.tensors))
}

// Metadata returns the free-form string metadata, including the checksum.
func (f *File) Metadata() map[string]string {
	return f.metadata
}

// Tensor returns the named tensor.
func (f *File) Tensor(name string) (*tensor.RawTensor, error) {
	raw, ok := f.tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	return raw, nil
}

// dtypeToSafeTensors converts tensor.DataType to SafeTensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) (string, error) {
	switch dt {
	case tensor.Float32:
		return "F32", nil
	case tensor.Float64:
		return "F64", nil
	case tensor.Int32:
		return "I32", nil
	case tensor.Bool:
		return "BOOL", nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnsupportedDType, dt)
	}
}

func dtypeFromSafeTensors(s string) (tensor.DataType, error) {
	switch s {
	case "F32":
		return tensor.Float32, nil
	case "F64":
		return tensor.Float64, nil
	case "I32":
		return tensor.Int32, nil
	case "BOOL":
		return tensor.Bool, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDType, s)
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/born-ml/adaround/internal/serialization"
	"github.com/born-ml/adaround/tensor"
)

// tensorFile is the JSON form of a float32 tensor.
type tensorFile struct {
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

// jsonOutput is written by --out when the path ends in .json.
type jsonOutput struct {
	Metadata map[string]string     `json:"metadata,omitempty"`
	Tensors  map[string]tensorFile `json:"tensors"`
}

func (t tensorFile) validate() error {
	shape := tensor.Shape(t.Shape)
	if err := shape.Validate(); err != nil {
		return err
	}
	if n := shape.NumElements(); n != len(t.Data) {
		return fmt.Errorf("shape %v requires %d elements, got %d", shape, n, len(t.Data))
	}
	return nil
}

// loadWeights reads a float32 tensor from a .json or .safetensors file.
// name selects a tensor in a .safetensors file holding more than one.
func loadWeights(path, name string) (tensorFile, error) {
	var (
		t   tensorFile
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		t, err = loadJSON(path)
	case ".safetensors":
		t, err = loadSafeTensors(path, name)
	default:
		return tensorFile{}, fmt.Errorf("unsupported weights format %q (want .json or .safetensors)", ext)
	}
	if err != nil {
		return tensorFile{}, fmt.Errorf("load weights %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return tensorFile{}, fmt.Errorf("load weights %s: %w", path, err)
	}
	return t, nil
}

func loadJSON(path string) (tensorFile, error) {
	//nolint:gosec // G304: input path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return tensorFile{}, err
	}
	var t tensorFile
	if err := json.Unmarshal(data, &t); err != nil {
		return tensorFile{}, err
	}
	return t, nil
}

func loadSafeTensors(path, name string) (tensorFile, error) {
	f, err := serialization.ReadFile(path)
	if err != nil {
		return tensorFile{}, err
	}

	if name == "" {
		names := f.Names()
		if len(names) != 1 {
			return tensorFile{}, fmt.Errorf("file holds %d tensors, select one with --tensor: %s",
				len(names), strings.Join(names, ", "))
		}
		name = names[0]
	}

	raw, err := f.Tensor(name)
	if err != nil {
		return tensorFile{}, err
	}

	t := tensorFile{Shape: raw.Shape().Clone()}
	switch raw.DType() {
	case tensor.Float32:
		t.Data = append([]float32(nil), raw.AsFloat32()...)
	case tensor.Float64:
		t.Data = make([]float32, raw.NumElements())
		for i, v := range raw.AsFloat64() {
			t.Data[i] = float32(v)
		}
	default:
		return tensorFile{}, fmt.Errorf("tensor %q has dtype %s, want float32 or float64", name, raw.DType())
	}
	return t, nil
}

// writeOutputs writes float32 tensors to a .json or .safetensors file.
func writeOutputs(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".safetensors":
		return serialization.WriteFile(path, tensors, metadata)
	case ".json":
		out := jsonOutput{
			Metadata: metadata,
			Tensors:  make(map[string]tensorFile, len(tensors)),
		}
		for name, raw := range tensors {
			out.Tensors[name] = tensorFile{
				Shape: raw.Shape().Clone(),
				Data:  raw.AsFloat32(),
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		//nolint:gosec // G306: output is not sensitive
		return os.WriteFile(path, data, 0o644)
	default:
		return fmt.Errorf("unsupported output format %q (want .json or .safetensors)", ext)
	}
}

// Package cpu implements the CPU backend for element-wise tensor kernels.
package cpu

import (
	"fmt"

	"github.com/born-ml/adaround/internal/parallel"
	"github.com/born-ml/adaround/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
// Large element-wise kernels are split across goroutines.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// toFloat64 converts a scalar operand to float64.
func toFloat64(op string, scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
	}
}

// unary applies f to every element of a float tensor.
func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	result := tensor.NewRawLike(x)

	switch x.DType() {
	case tensor.Float32:
		unaryKernel(result.AsFloat32(), x.AsFloat32(), f, cpu.par)
	case tensor.Float64:
		unaryKernel(result.AsFloat64(), x.AsFloat64(), f, cpu.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", op, x.DType()))
	}

	return result
}

// binary applies f to matching elements of two float tensors of identical shape.
func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, f func(x, y float64) float64) *tensor.RawTensor {
	tensor.MustMatch(op, a.Shape(), b.Shape())
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	result := tensor.NewRawLike(a)

	switch a.DType() {
	case tensor.Float32:
		binaryKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f, cpu.par)
	case tensor.Float64:
		binaryKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f, cpu.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", op, a.DType()))
	}

	return result
}

// Arithmetic on float32 is carried out in float64 and rounded once; for
// + - * / that is bit-identical to native float32 arithmetic.
func unaryKernel[T float32 | float64](dst, src []T, f func(v float64) float64, cfg parallel.Config) {
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = T(f(float64(src[i])))
		}
	}, cfg)
}

func binaryKernel[T float32 | float64](dst, a, b []T, f func(x, y float64) float64, cfg parallel.Config) {
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = T(f(float64(a[i]), float64(b[i])))
		}
	}, cfg)
}

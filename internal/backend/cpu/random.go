package cpu

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/adaround/internal/tensor"
)

// Bernoulli draws an independent 0/1 sample per element with success
// probability equal to the element value. Draws are sequential because
// rand.Rand is not safe for concurrent use.
func (cpu *CPUBackend) Bernoulli(p *tensor.RawTensor, rng *rand.Rand) *tensor.RawTensor {
	if rng == nil {
		panic("bernoulli: nil random source")
	}

	result := tensor.NewRawLike(p)

	switch p.DType() {
	case tensor.Float32:
		bernoulliKernel(result.AsFloat32(), p.AsFloat32(), rng)
	case tensor.Float64:
		bernoulliKernel(result.AsFloat64(), p.AsFloat64(), rng)
	default:
		panic(fmt.Sprintf("bernoulli: unsupported dtype %s (only float32/float64 supported)", p.DType()))
	}

	return result
}

func bernoulliKernel[T float32 | float64](dst, prob []T, rng *rand.Rand) {
	for i, p := range prob {
		if rng.Float64() < float64(p) {
			dst[i] = 1
		}
	}
}

package cpu

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/adaround/internal/parallel"
	"github.com/born-ml/adaround/internal/tensor"
)

// Helper to create a float32 raw tensor from values.
func rawF32(t *testing.T, shape tensor.Shape, values ...float32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	copy(r.AsFloat32(), values)
	return r
}

// Helper to check float32 slices are equal within epsilon.
func float32SliceEqual(a, b []float32) bool {
	const epsilon = 1e-6
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > epsilon {
			return false
		}
	}
	return true
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
}

func TestCPUBackend_Arithmetic(t *testing.T) {
	backend := New()
	a := rawF32(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
	b := rawF32(t, tensor.Shape{2, 2}, 10, 20, 30, 40)

	tests := []struct {
		name string
		got  *tensor.RawTensor
		want []float32
	}{
		{"Add", backend.Add(a, b), []float32{11, 22, 33, 44}},
		{"Sub", backend.Sub(b, a), []float32{9, 18, 27, 36}},
		{"Mul", backend.Mul(a, b), []float32{10, 40, 90, 160}},
		{"Div", backend.Div(b, a), []float32{10, 10, 10, 10}},
		{"MulScalar", backend.MulScalar(a, float32(2)), []float32{2, 4, 6, 8}},
		{"AddScalar", backend.AddScalar(a, float32(0.5)), []float32{1.5, 2.5, 3.5, 4.5}},
		{"SubScalar", backend.SubScalar(a, float32(1)), []float32{0, 1, 2, 3}},
		{"DivScalar", backend.DivScalar(a, float32(4)), []float32{0.25, 0.5, 0.75, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !float32SliceEqual(tt.got.AsFloat32(), tt.want) {
				t.Errorf("got %v, want %v", tt.got.AsFloat32(), tt.want)
			}
		})
	}

	// Inputs are never written.
	if !float32SliceEqual(a.AsFloat32(), []float32{1, 2, 3, 4}) {
		t.Errorf("input modified: %v", a.AsFloat32())
	}
}

func TestCPUBackend_ShapeMismatchPanics(t *testing.T) {
	backend := New()
	a := rawF32(t, tensor.Shape{2}, 1, 2)
	b := rawF32(t, tensor.Shape{3}, 1, 2, 3)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on shape mismatch")
		}
	}()
	backend.Add(a, b)
}

func TestCPUBackend_Rounding(t *testing.T) {
	backend := New()
	x := rawF32(t, tensor.Shape{6}, -1.5, -0.5, 0.5, 1.5, 2.5, 2.7)

	floor := backend.Floor(x).AsFloat32()
	if !float32SliceEqual(floor, []float32{-2, -1, 0, 1, 2, 2}) {
		t.Errorf("Floor = %v", floor)
	}

	// Ties go to the even neighbour.
	round := backend.Round(x).AsFloat32()
	if !float32SliceEqual(round, []float32{-2, -0, 0, 2, 2, 3}) {
		t.Errorf("Round = %v", round)
	}

	ste := backend.RoundSTE(x).AsFloat32()
	if !float32SliceEqual(ste, round) {
		t.Errorf("RoundSTE = %v, want %v", ste, round)
	}
}

func TestCPUBackend_SigmoidAndClamp(t *testing.T) {
	backend := New()
	x := rawF32(t, tensor.Shape{3}, 0, 100, -100)

	sig := backend.Sigmoid(x).AsFloat32()
	if !float32SliceEqual(sig, []float32{0.5, 1, 0}) {
		t.Errorf("Sigmoid = %v", sig)
	}

	c := rawF32(t, tensor.Shape{4}, -0.2, 0.3, 1.7, float32(math.NaN()))
	clamped := backend.Clamp(c, float32(0), float32(1)).AsFloat32()
	if !float32SliceEqual(clamped[:3], []float32{0, 0.3, 1}) {
		t.Errorf("Clamp = %v", clamped)
	}
	if !math.IsNaN(float64(clamped[3])) {
		t.Errorf("Clamp(NaN) = %v, want NaN", clamped[3])
	}
}

func TestCPUBackend_GreaterEqualAndCast(t *testing.T) {
	backend := New()
	x := rawF32(t, tensor.Shape{4}, -0.1, 0, float32(math.Copysign(0, -1)), 2)

	mask := backend.GreaterEqualScalar(x, float32(0))
	want := []bool{false, true, true, true}
	for i, v := range mask.AsBool() {
		if v != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, v, want[i])
		}
	}

	f := backend.Cast(mask, tensor.Float32).AsFloat32()
	if !float32SliceEqual(f, []float32{0, 1, 1, 1}) {
		t.Errorf("Cast = %v", f)
	}

	i32 := backend.Cast(rawF32(t, tensor.Shape{2}, 2.9, -2.9), tensor.Int32).AsInt32()
	if i32[0] != 2 || i32[1] != -2 {
		t.Errorf("Cast to int32 = %v", i32)
	}
}

func TestCPUBackend_Sum(t *testing.T) {
	backend := New()
	x := rawF32(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	s := backend.Sum(x)
	if len(s.Shape()) != 0 {
		t.Errorf("Sum shape = %v, want scalar", s.Shape())
	}
	if s.AsFloat32()[0] != 21 {
		t.Errorf("Sum = %v, want 21", s.AsFloat32()[0])
	}
}

func TestCPUBackend_Bernoulli(t *testing.T) {
	backend := New()
	rng := rand.New(rand.NewPCG(1, 2))

	const n = 20000
	p, _ := tensor.NewRaw(tensor.Shape{n}, tensor.Float32, tensor.CPU)
	p.Fill(0.3)

	draws := backend.Bernoulli(p, rng).AsFloat32()
	ones := 0
	for _, v := range draws {
		if v != 0 && v != 1 {
			t.Fatalf("draw %v is not 0/1", v)
		}
		if v == 1 {
			ones++
		}
	}
	rate := float64(ones) / n
	if math.Abs(rate-0.3) > 0.02 {
		t.Errorf("rate = %.4f, want ~0.3", rate)
	}

	// Degenerate probabilities are deterministic.
	edge := rawF32(t, tensor.Shape{2}, 0, 1)
	got := backend.Bernoulli(edge, rng).AsFloat32()
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("Bernoulli([0 1]) = %v", got)
	}
}

func TestCPUBackend_ParallelMatchesSequential(t *testing.T) {
	seq := NewWithConfig(parallel.Sequential())
	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16})

	n := 1000
	a, _ := tensor.NewRaw(tensor.Shape{n}, tensor.Float32, tensor.CPU)
	for i, data := 0, a.AsFloat32(); i < n; i++ {
		data[i] = float32(i)*0.37 - 100
	}

	want := seq.Sigmoid(a).AsFloat32()
	got := par.Sigmoid(a).AsFloat32()
	if !float32SliceEqual(got, want) {
		t.Error("parallel sigmoid differs from sequential")
	}
}

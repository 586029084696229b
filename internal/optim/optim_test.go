package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/adaround/internal/autodiff"
	"github.com/born-ml/adaround/internal/backend/cpu"
	"github.com/born-ml/adaround/internal/nn"
	"github.com/born-ml/adaround/internal/optim"
	"github.com/born-ml/adaround/internal/tensor"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func scalarParam(t *testing.T, backend adBackend, v float32) *nn.Parameter[adBackend] {
	t.Helper()
	x, err := tensor.FromSlice([]float32{v}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return nn.NewParameter("x", x)
}

func gradMap(param *nn.Parameter[adBackend], g float32) map[*tensor.RawTensor]*tensor.RawTensor {
	grad, _ := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)
	grad.AsFloat32()[0] = g
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): grad}
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 2.0)

	optimizer := optim.NewSGD([]*nn.Parameter[adBackend]{param}, optim.SGDConfig{LR: 0.1}, backend)
	optimizer.Step(gradMap(param, 1.0))

	// x_new = 2.0 - 0.1 * 1.0
	if got := param.Tensor().Raw().AsFloat32()[0]; !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("SGD update: got %f, want 1.9", got)
	}
	if param.Grad() == nil {
		t.Error("Step should record the gradient on the parameter")
	}

	optimizer.ZeroGrad()
	if param.Grad() != nil {
		t.Error("ZeroGrad should clear the gradient")
	}
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 1.0)

	optimizer := optim.NewSGD([]*nn.Parameter[adBackend]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)

	optimizer.Step(gradMap(param, 1.0)) // v = 1, x = 0.9
	optimizer.Step(gradMap(param, 1.0)) // v = 1.9, x = 0.71

	if got := param.Tensor().Raw().AsFloat32()[0]; !floatEqual(got, 0.71, 1e-6) {
		t.Errorf("SGD momentum: got %f, want 0.71", got)
	}
}

// TestAdam_FirstStep checks that the first Adam step moves by ~lr.
func TestAdam_FirstStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 1.0)

	optimizer := optim.NewAdam([]*nn.Parameter[adBackend]{param}, optim.AdamConfig{LR: 0.01}, backend)
	optimizer.Step(gradMap(param, 5.0))

	// With bias correction m_hat/sqrt(v_hat) = sign(g) on step 1.
	if got := param.Tensor().Raw().AsFloat32()[0]; !floatEqual(got, 0.99, 1e-5) {
		t.Errorf("Adam step: got %f, want 0.99", got)
	}
	if optimizer.GetTimestep() != 1 {
		t.Errorf("timestep = %d, want 1", optimizer.GetTimestep())
	}
}

// TestAdam_SkipsMissingGradient checks that parameters outside the graph are untouched.
func TestAdam_SkipsMissingGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 3.0)

	optimizer := optim.NewAdam([]*nn.Parameter[adBackend]{param}, optim.AdamConfig{}, backend)
	optimizer.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	if got := param.Tensor().Raw().AsFloat32()[0]; got != 3.0 {
		t.Errorf("param changed without gradient: %f", got)
	}
	if optimizer.GetLR() != 0.001 {
		t.Errorf("default LR = %f, want 0.001", optimizer.GetLR())
	}
}

// TestAdam_MinimizesQuadratic runs Adam end to end through autodiff on (x-3)².
func TestAdam_MinimizesQuadratic(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := scalarParam(t, backend, 0.0)
	target, _ := tensor.FromSlice([]float32{3}, tensor.Shape{1}, backend)

	optimizer := optim.NewAdam([]*nn.Parameter[adBackend]{param}, optim.AdamConfig{LR: 0.1}, backend)
	tape := backend.Tape()
	tape.StartRecording()

	for range 300 {
		tape.Clear()
		diff := param.Tensor().Sub(target)
		loss := diff.Mul(diff).Sum()
		optimizer.Step(autodiff.Backward(loss, backend))
		optimizer.ZeroGrad()
	}

	if got := param.Tensor().Raw().AsFloat32()[0]; math.Abs(float64(got)-3) > 0.1 {
		t.Errorf("Adam converged to %f, want ~3", got)
	}
}

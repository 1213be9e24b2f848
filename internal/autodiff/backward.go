package autodiff

import (
	"github.com/born-ml/nash/internal/tensor"
)

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable interface).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of t with respect to every tensor on the tape.
//
// t must be the output of the last recorded operation. Its gradient is seeded
// with ones, so for a scalar loss the map holds ∂t/∂x for every input x.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	x := tensor.Ones(tensor.Shape{2, 1}, backend)
//	y := x.Mul(x).Sum()
//	gradients := autodiff.Backward(y, backend)
//	grad := gradients[x.Raw()] // 2x
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()

	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}
	if last := tape.ops[tape.NumOps()-1]; last.Output() != t.Raw() {
		panic("backward: tensor is not the output of the last recorded operation")
	}

	outputGrad := tensor.MustRaw(t.Shape())
	data := outputGrad.Data()
	for i := range data {
		data[i] = 1
	}

	return tape.Backward(outputGrad, backend)
}

// GradOf returns the gradient recorded for x, or zeros shaped like x when
// no gradient reached it.
func GradOf(grads map[*tensor.RawTensor]*tensor.RawTensor, x *tensor.RawTensor) *tensor.RawTensor {
	if g, ok := grads[x]; ok {
		return g
	}
	return tensor.MustRaw(x.Shape())
}

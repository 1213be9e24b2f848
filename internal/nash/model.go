package nash

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/optim"
	"github.com/born-ml/nash/internal/tensor"
)

// Model is a linear regressor predict(X) = X v + b.
//
// Weights is (d, 1) and Bias is (1, 1). Both are tensor leaves that the
// optimizers update in place.
type Model[B tensor.Backend] struct {
	Weights *tensor.Tensor[B]
	Bias    *tensor.Tensor[B]
}

// NewModel draws d+1 standard normal values: d weights followed by the bias.
func NewModel[B tensor.Backend](features int, rng *rand.Rand, backend B) *Model[B] {
	w := tensor.Randn(tensor.Shape{features + 1, 1}, rng, backend).Data()
	return ModelFromSlice(w, backend)
}

// ModelFromSlice builds a model from (v_1..v_d, b).
func ModelFromSlice[B tensor.Backend](w []float64, backend B) *Model[B] {
	if len(w) < 2 {
		panic(fmt.Sprintf("model: need at least one weight and a bias, got %d values", len(w)))
	}
	d := len(w) - 1
	return &Model[B]{
		Weights: tensor.FromColumn(w[:d], backend),
		Bias:    tensor.Full(tensor.Scalar, w[d], backend),
	}
}

// Features returns d.
func (m *Model[B]) Features() int {
	return m.Weights.Shape().Rows()
}

// Predict returns X v + b as an (n, 1) column.
func (m *Model[B]) Predict(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	return x.MatMul(m.Weights).Add(m.Bias)
}

// Parameters returns the trainable parameters in (weights, bias) order.
func (m *Model[B]) Parameters() []*optim.Parameter[B] {
	return []*optim.Parameter[B]{
		optim.NewParameter("weights", m.Weights),
		optim.NewParameter("bias", m.Bias),
	}
}

// Flatten returns (v_1..v_d, b), the row layout of the original 1 x (d+1) w.
func (m *Model[B]) Flatten() []float64 {
	out := make([]float64, 0, m.Features()+1)
	out = append(out, m.Weights.Data()...)
	return append(out, m.Bias.Item())
}

// StateDict returns the model's tensors by parameter name. The tensors are
// shared with the model, not copied.
func (m *Model[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor, 2)
	for _, p := range m.Parameters() {
		state[p.Name()] = p.Tensor().Raw()
	}
	return state
}

// LoadModel rebuilds a model from a state dict written by StateDict.
func LoadModel[B tensor.Backend](state map[string]*tensor.RawTensor, backend B) (*Model[B], error) {
	w, ok := state["weights"]
	if !ok {
		return nil, fmt.Errorf("%w: state has no weights", ErrShapeMismatch)
	}
	b, ok := state["bias"]
	if !ok {
		return nil, fmt.Errorf("%w: state has no bias", ErrShapeMismatch)
	}
	if w.Shape().Cols() != 1 {
		return nil, fmt.Errorf("%w: weights %v, want a column", ErrShapeMismatch, w.Shape())
	}
	if !b.Shape().Equal(tensor.Scalar) {
		return nil, fmt.Errorf("%w: bias %v, want %v", ErrShapeMismatch, b.Shape(), tensor.Scalar)
	}
	return &Model[B]{
		Weights: tensor.New(w.Clone(), backend),
		Bias:    tensor.New(b.Clone(), backend),
	}, nil
}

// Clone returns an independent copy.
func (m *Model[B]) Clone() *Model[B] {
	return &Model[B]{
		Weights: m.Weights.Clone(),
		Bias:    m.Bias.Clone(),
	}
}

// withoutTape runs f with gradient recording paused.
func withoutTape[B autodiff.BackwardCapable](backend B, f func()) {
	tape := backend.GetTape()
	was := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if was {
			tape.StartRecording()
		}
	}()
	f()
}

package nash

import (
	"fmt"

	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/tensor"
)

// Attack returns the attacker's best response to a fixed model.
//
// For each sample the minimizer of c_i (x v + b - z_i)² + ‖x - X_i‖² is
//
//	x* = X_i - (X_i v + b - z_i) v / (1/c_i + vᵀv)
//
// A zero cost leaves the sample untouched.
func Attack[B autodiff.BackwardCapable](m *Model[B], x *tensor.Tensor[B], a Attacker[B]) (*tensor.Tensor[B], error) {
	n := x.Shape().Rows()
	if x.Shape().Cols() != m.Features() {
		return nil, fmt.Errorf("%w: data has %d features, model has %d",
			ErrShapeMismatch, x.Shape().Cols(), m.Features())
	}
	if err := a.validate(n); err != nil {
		return nil, err
	}

	var attacked *tensor.Tensor[B]
	withoutTape(x.Backend(), func() {
		norm := m.Weights.T().MatMul(m.Weights)
		denom := tensor.Ones(tensor.Shape{n, 1}, x.Backend()).Div(a.Cost).Add(norm)
		residual := m.Predict(x).Sub(a.Target)
		attacked = x.Sub(residual.Div(denom).MatMul(m.Weights.T()))
	})
	return attacked, nil
}

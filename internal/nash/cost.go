package nash

import (
	"fmt"

	"github.com/born-ml/nash/internal/tensor"
)

// Attacker describes the data provider's incentives for every sample.
//
// Cost c_i scales how much the attacker cares about steering sample i
// towards Target z_i, relative to the squared distance it moves X_i.
// Both are (n, 1) columns.
type Attacker[B tensor.Backend] struct {
	Cost   *tensor.Tensor[B]
	Target *tensor.Tensor[B]
}

// NewAttacker returns an attacker with the same cost and target for all n samples.
func NewAttacker[B tensor.Backend](n int, cost, target float64, backend B) Attacker[B] {
	return Attacker[B]{
		Cost:   tensor.Full(tensor.Shape{n, 1}, cost, backend),
		Target: tensor.Full(tensor.Shape{n, 1}, target, backend),
	}
}

func (a Attacker[B]) validate(n int) error {
	if a.Cost == nil || a.Target == nil {
		return fmt.Errorf("%w: attacker cost and target are required", ErrShapeMismatch)
	}
	want := tensor.Shape{n, 1}
	if !a.Cost.Shape().Equal(want) {
		return fmt.Errorf("%w: attacker cost %v, want %v", ErrShapeMismatch, a.Cost.Shape(), want)
	}
	if !a.Target.Shape().Equal(want) {
		return fmt.Errorf("%w: attacker target %v, want %v", ErrShapeMismatch, a.Target.Shape(), want)
	}
	return nil
}

// LearnerCost computes f(w, X) = Σ (X v + b - y)² + λ vᵀv.
//
// The bias is not penalized. The result is (1, 1).
func LearnerCost[B tensor.Backend](m *Model[B], x, y *tensor.Tensor[B], lambda float64) *tensor.Tensor[B] {
	residual := m.Predict(x).Sub(y)
	penalty := m.Weights.T().MatMul(m.Weights).MulScalar(lambda)
	return residual.Square().Sum().Add(penalty)
}

// AttackerCost computes g(w, X) = Σ c_i (X_i v + b - z_i)² + ‖X - Xc‖².
func AttackerCost[B tensor.Backend](m *Model[B], x, clean *tensor.Tensor[B], a Attacker[B]) *tensor.Tensor[B] {
	residual := m.Predict(x).Sub(a.Target)
	shift := x.Sub(clean)
	return a.Cost.Mul(residual.Square()).Sum().Add(shift.Square().Sum())
}

// AttackerGradX computes ∇_X g = 2 (c ⊙ r) vᵀ + 2 (X - Xc), r = X v + b - z.
//
// It is written in tensor ops so that, on an autodiff backend, the gradient
// itself can be differentiated with respect to both w and X.
func AttackerGradX[B tensor.Backend](m *Model[B], x, clean *tensor.Tensor[B], a Attacker[B]) *tensor.Tensor[B] {
	residual := m.Predict(x).Sub(a.Target)
	pull := a.Cost.Mul(residual).MatMul(m.Weights.T()).MulScalar(2)
	return pull.Add(x.Sub(clean).MulScalar(2))
}

// RidgeLoss computes the mean squared error plus λ(vᵀv + b²).
func RidgeLoss[B tensor.Backend](m *Model[B], x, y *tensor.Tensor[B], lambda float64) *tensor.Tensor[B] {
	n := float64(x.Shape().Rows())
	mse := m.Predict(x).Sub(y).Square().Sum().MulScalar(1 / n)
	norm := m.Weights.Square().Sum().Add(m.Bias.Square())
	return mse.Add(norm.MulScalar(lambda))
}

package nash

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/tensor"
)

// RMSE returns sqrt(mean((pred - y)²)).
func RMSE[B tensor.Backend](pred, y *tensor.Tensor[B]) (float64, error) {
	if !pred.Shape().Equal(y.Shape()) {
		return 0, fmt.Errorf("%w: predictions %v, labels %v", ErrShapeMismatch, pred.Shape(), y.Shape())
	}
	n := float64(y.NumElements())
	return floats.Distance(pred.Data(), y.Data(), 2) / math.Sqrt(n), nil
}

// Evaluate returns the model's RMSE on x against y without recording on
// the tape.
func Evaluate[B autodiff.BackwardCapable](m *Model[B], x, y *tensor.Tensor[B]) (float64, error) {
	if x.Shape().Cols() != m.Features() {
		return 0, fmt.Errorf("%w: data has %d features, model has %d",
			ErrShapeMismatch, x.Shape().Cols(), m.Features())
	}
	var pred *tensor.Tensor[B]
	withoutTape(x.Backend(), func() {
		pred = m.Predict(x)
	})
	return RMSE(pred, y)
}

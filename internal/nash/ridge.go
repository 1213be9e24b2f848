package nash

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/optim"
	"github.com/born-ml/nash/internal/tensor"
)

// RidgeConfig configures the non-adversarial baseline.
type RidgeConfig struct {
	Epochs int
	LR     float64
	Lambda float64
}

// DefaultRidgeConfig returns the baseline settings.
func DefaultRidgeConfig() RidgeConfig {
	return RidgeConfig{Epochs: 1000, LR: 0.01, Lambda: 0}
}

// TrainRidge fits a copy of initial by full-batch gradient descent on RidgeLoss.
// It returns the fitted model and the loss before every step.
func TrainRidge[B autodiff.BackwardCapable](
	ctx context.Context,
	initial *Model[B],
	x, y *tensor.Tensor[B],
	cfg RidgeConfig,
	logger *zap.Logger,
) (*Model[B], []float64, error) {
	if cfg.Epochs < 0 || cfg.LR <= 0 || cfg.Lambda < 0 {
		return nil, nil, fmt.Errorf("%w: ridge epochs=%d lr=%g lambda=%g",
			ErrInvalidConfig, cfg.Epochs, cfg.LR, cfg.Lambda)
	}
	if x.Shape().Cols() != initial.Features() {
		return nil, nil, fmt.Errorf("%w: data has %d features, model has %d",
			ErrShapeMismatch, x.Shape().Cols(), initial.Features())
	}
	if want := (tensor.Shape{x.Shape().Rows(), 1}); !y.Shape().Equal(want) {
		return nil, nil, fmt.Errorf("%w: labels %v, want %v", ErrShapeMismatch, y.Shape(), want)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	backend := x.Backend()
	model := initial.Clone()
	sgd := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: cfg.LR})

	tape := backend.GetTape()
	wasRecording := tape.IsRecording()
	tape.StartRecording()
	defer func() {
		tape.Clear()
		if !wasRecording {
			tape.StopRecording()
		}
	}()

	losses := make([]float64, 0, cfg.Epochs)
	for epoch := range cfg.Epochs {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("ridge: stopped at epoch %d: %w", epoch, err)
		}

		tape.Clear()
		loss := RidgeLoss(model, x, y, cfg.Lambda)
		value := loss.Item()
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, nil, fmt.Errorf("%w: ridge loss %v at epoch %d", ErrDiverged, value, epoch)
		}
		losses = append(losses, value)
		sgd.Step(autodiff.Backward(loss, backend))
	}

	logger.Debug("ridge baseline trained",
		zap.Int("epochs", cfg.Epochs),
		zap.Float64("final_loss", lastOr(losses, math.NaN())),
	)
	return model, losses, nil
}

func lastOr(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return values[len(values)-1]
}

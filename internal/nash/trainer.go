package nash

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/optim"
	"github.com/born-ml/nash/internal/tensor"
)

// Config holds the hyperparameters of the bilevel game.
type Config struct {
	Lambda      float64    // ridge penalty on the weights
	OuterLR     float64    // learner step size
	InnerLR     float64    // attacker step size
	OuterEpochs int        // learner updates
	InnerSteps  int        // attacker descent steps per learner update
	Truncation  int        // reverse sweep length; 0 sweeps every inner step
	Optimizer   optim.Kind // learner optimizer (default: sgd)
	Momentum    float64    // SGD momentum
	ColdStart   bool       // redraw the perturbation before every learner update
	// LinearizePostStep linearizes step j at its output X_{j+1} instead of
	// its input X_j. The result is no longer the exact derivative of the
	// unrolled solve; it reproduces the reference convergence curves.
	LinearizePostStep bool
	LogEvery          int // debug log period in epochs; 0 disables progress logs
}

// DefaultConfig returns the settings used for the wine convergence runs.
func DefaultConfig() Config {
	return Config{
		Lambda:      0,
		OuterLR:     1e-5,
		InnerLR:     0.01,
		OuterEpochs: 500,
		InnerSteps:  100,
		Optimizer:   optim.KindSGD,
		LogEvery:    10,
	}
}

// Validate reports hyperparameters the trainer cannot run with.
func (c Config) Validate() error {
	switch {
	case c.OuterLR <= 0:
		return fmt.Errorf("%w: outer learning rate must be positive, got %g", ErrInvalidConfig, c.OuterLR)
	case c.InnerLR <= 0:
		return fmt.Errorf("%w: inner learning rate must be positive, got %g", ErrInvalidConfig, c.InnerLR)
	case c.OuterEpochs < 0:
		return fmt.Errorf("%w: outer epochs must be non-negative, got %d", ErrInvalidConfig, c.OuterEpochs)
	case c.InnerSteps < 0:
		return fmt.Errorf("%w: inner steps must be non-negative, got %d", ErrInvalidConfig, c.InnerSteps)
	case c.Truncation < 0:
		return fmt.Errorf("%w: truncation must be non-negative, got %d", ErrInvalidConfig, c.Truncation)
	case c.Lambda < 0:
		return fmt.Errorf("%w: lambda must be non-negative, got %g", ErrInvalidConfig, c.Lambda)
	case c.LogEvery < 0:
		return fmt.Errorf("%w: log period must be non-negative, got %d", ErrInvalidConfig, c.LogEvery)
	}
	if c.Optimizer != "" {
		if _, err := optim.ParseKind(string(c.Optimizer)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Problem is the data the game is played on.
type Problem[B tensor.Backend] struct {
	X        *tensor.Tensor[B] // clean features (n, d)
	Y        *tensor.Tensor[B] // labels (n, 1)
	Attacker Attacker[B]
}

func (p Problem[B]) validate(features int) error {
	if p.X == nil || p.Y == nil {
		return fmt.Errorf("%w: features and labels are required", ErrShapeMismatch)
	}
	n, d := p.X.Shape().Rows(), p.X.Shape().Cols()
	if d != features {
		return fmt.Errorf("%w: data has %d features, model has %d", ErrShapeMismatch, d, features)
	}
	if want := (tensor.Shape{n, 1}); !p.Y.Shape().Equal(want) {
		return fmt.Errorf("%w: labels %v, want %v", ErrShapeMismatch, p.Y.Shape(), want)
	}
	return p.Attacker.validate(n)
}

// Result is the outcome of a training run.
type Result[B tensor.Backend] struct {
	Model *Model[B]
	// Loss[i] is the learner cost on the attacker's data after update i.
	Loss []float64
	// Perturbation is the attacker's data after the final inner solve,
	// or the initial draw when no update ran.
	Perturbation *tensor.Tensor[B]
}

// Trainer plays the learner against a gradient-descent attacker.
//
// Every learner update unrolls InnerSteps of attacker descent on
// g(w, X) from the previous perturbation, then differentiates the learner
// cost at the final iterate through the unrolled steps by a reverse sweep
// of vector-Jacobian products.
type Trainer[B autodiff.BackwardCapable] struct {
	backend B
	cfg     Config
	logger  *zap.Logger
}

// NewTrainer validates cfg and returns a trainer. A nil logger disables logging.
func NewTrainer[B autodiff.BackwardCapable](backend B, cfg Config, logger *zap.Logger) (*Trainer[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer[B]{backend: backend, cfg: cfg, logger: logger}, nil
}

// Config returns the trainer's hyperparameters.
func (t *Trainer[B]) Config() Config {
	return t.cfg
}

// Train runs OuterEpochs learner updates starting from a copy of initial.
//
// The attacker's data starts from a standard normal draw of X's shape and
// is carried over between updates unless ColdStart is set. Cancelling ctx
// stops training between updates.
func (t *Trainer[B]) Train(ctx context.Context, initial *Model[B], p Problem[B], rng *rand.Rand) (*Result[B], error) {
	if err := p.validate(initial.Features()); err != nil {
		return nil, err
	}

	model := initial.Clone()
	opt, err := optim.New(model.Parameters(), optim.Config{
		Kind:     t.cfg.Optimizer,
		LR:       t.cfg.OuterLR,
		Momentum: t.cfg.Momentum,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	tape := t.backend.GetTape()
	wasRecording := tape.IsRecording()
	tape.StartRecording()
	defer func() {
		tape.Clear()
		if !wasRecording {
			tape.StopRecording()
		}
	}()

	perturbed := tensor.Randn(p.X.Shape(), rng, t.backend)
	losses := make([]float64, 0, t.cfg.OuterEpochs)

	for epoch := range t.cfg.OuterEpochs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("nash: stopped at epoch %d: %w", epoch, err)
		}
		if t.cfg.ColdStart && epoch > 0 {
			perturbed = tensor.Randn(p.X.Shape(), rng, t.backend)
		}

		gradW, gradB, final := t.Hypergradient(model, p, perturbed)
		opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{
			model.Weights.Raw(): gradW,
			model.Bias.Raw():    gradB,
		})
		perturbed = final

		var loss float64
		withoutTape(t.backend, func() {
			loss = LearnerCost(model, perturbed, p.Y, t.cfg.Lambda).Item()
		})
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, fmt.Errorf("%w: loss %v at epoch %d", ErrDiverged, loss, epoch)
		}
		losses = append(losses, loss)

		if t.cfg.LogEvery > 0 && epoch%t.cfg.LogEvery == 0 {
			t.logger.Debug("nash epoch",
				zap.Int("epoch", epoch),
				zap.Float64("loss", loss),
				zap.Float64("bias", model.Bias.Item()),
			)
		}
	}

	return &Result[B]{Model: model, Loss: losses, Perturbation: perturbed}, nil
}

// SolveAttacker runs InnerSteps of gradient descent on the attacker cost
// from start, with the model held fixed.
//
// It returns the input of every step (start first) and the final iterate.
// The tape must be recording.
func (t *Trainer[B]) SolveAttacker(m *Model[B], p Problem[B], start *tensor.Tensor[B]) ([]*tensor.RawTensor, *tensor.Tensor[B]) {
	tape := t.backend.GetTape()
	iterates := make([]*tensor.RawTensor, 0, t.cfg.InnerSteps)

	x := start
	for range t.cfg.InnerSteps {
		iterates = append(iterates, x.Raw())

		tape.Clear()
		cost := AttackerCost(m, x, p.X, p.Attacker)
		grad := autodiff.GradOf(autodiff.Backward(cost, t.backend), x.Raw())

		withoutTape(t.backend, func() {
			x = x.Sub(tensor.New(grad, t.backend).MulScalar(t.cfg.InnerLR))
		})
	}
	return iterates, x
}

// Hypergradient returns the total derivative of f(w, X_S(w)) with respect
// to the weights and the bias, where X_S is the attacker's final iterate
// from start. It also returns X_S.
//
// The reverse sweep carries α = -∂f/∂X_S backwards through the step maps
// Φ_j(w, X) = X - η ∇_X g(w, X), each linearized at its step input X_j:
// the scalar L = Σ Φ_j ⊙ α is backpropagated, -∂L/∂w is accumulated into
// the indirect gradient and ∂L/∂X_j becomes the next α. The tape must be
// recording.
func (t *Trainer[B]) Hypergradient(m *Model[B], p Problem[B], start *tensor.Tensor[B]) (gradW, gradB *tensor.RawTensor, final *tensor.Tensor[B]) {
	tape := t.backend.GetTape()
	iterates, final := t.SolveAttacker(m, p, start)

	tape.Clear()
	cost := LearnerCost(m, final, p.Y, t.cfg.Lambda)
	grads := autodiff.Backward(cost, t.backend)
	gradW = autodiff.GradOf(grads, m.Weights.Raw()).Clone()
	gradB = autodiff.GradOf(grads, m.Bias.Raw()).Clone()

	var alpha *tensor.Tensor[B]
	withoutTape(t.backend, func() {
		alpha = tensor.New(autodiff.GradOf(grads, final.Raw()), t.backend).MulScalar(-1)
	})

	stop := 0
	if t.cfg.Truncation > 0 && t.cfg.Truncation < len(iterates) {
		stop = len(iterates) - t.cfg.Truncation
	}

	for j := len(iterates) - 1; j >= stop; j-- {
		at := iterates[j]
		if t.cfg.LinearizePostStep {
			at = final.Raw()
			if j+1 < len(iterates) {
				at = iterates[j+1]
			}
		}

		tape.Clear()
		xj := tensor.New(at, t.backend)
		step := xj.Sub(AttackerGradX(m, xj, p.X, p.Attacker).MulScalar(t.cfg.InnerLR))
		vjp := autodiff.Backward(step.Mul(alpha).Sum(), t.backend)

		withoutTape(t.backend, func() {
			gradW = t.backend.Sub(gradW, autodiff.GradOf(vjp, m.Weights.Raw()))
			gradB = t.backend.Sub(gradB, autodiff.GradOf(vjp, m.Bias.Raw()))
			alpha = tensor.New(autodiff.GradOf(vjp, at), t.backend)
		})
	}
	tape.Clear()

	return gradW, gradB, final
}

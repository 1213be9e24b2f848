// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nash trains ridge regressors against an adversarial data provider.
//
// The learner minimizes Σ (X v + b - y)² + λ vᵀv on data that an attacker
// moves to pull predictions towards its targets z at a cost weighted by c.
// Trainer approximates the attacker's response by unrolled gradient descent
// and updates the learner with the total derivative through the unrolled
// steps.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	problem := nash.Problem[*autodiff.Backend[*cpu.Backend]]{
//	    X:        x,
//	    Y:        y,
//	    Attacker: nash.NewAttacker(n, 0.5, 0, backend),
//	}
//
//	trainer, err := nash.NewTrainer(backend, nash.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	model := nash.NewModel(d, tensor.NewRNG(1), backend)
//	result, err := trainer.Train(ctx, model, problem, tensor.NewRNG(2))
package nash

import (
	"context"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/nash"
	"github.com/born-ml/nash/internal/tensor"
)

// Errors returned by the training entry points.
var (
	ErrShapeMismatch = nash.ErrShapeMismatch
	ErrInvalidConfig = nash.ErrInvalidConfig
	ErrDiverged      = nash.ErrDiverged
)

// Model is a linear regressor X v + b.
type Model[B tensor.Backend] = nash.Model[B]

// NewModel draws d weights and a bias from a standard normal.
func NewModel[B tensor.Backend](features int, rng *rand.Rand, backend B) *Model[B] {
	return nash.NewModel(features, rng, backend)
}

// ModelFromSlice builds a model from (v_1..v_d, b).
func ModelFromSlice[B tensor.Backend](w []float64, backend B) *Model[B] {
	return nash.ModelFromSlice(w, backend)
}

// LoadModel rebuilds a model from the tensors returned by Model.StateDict.
func LoadModel[B tensor.Backend](state map[string]*tensor.RawTensor, backend B) (*Model[B], error) {
	return nash.LoadModel(state, backend)
}

// Attacker holds the per-sample attacker costs and targets.
type Attacker[B tensor.Backend] = nash.Attacker[B]

// NewAttacker returns an attacker with one cost and target for all n samples.
func NewAttacker[B tensor.Backend](n int, cost, target float64, backend B) Attacker[B] {
	return nash.NewAttacker(n, cost, target, backend)
}

// Problem is the data the game is played on.
type Problem[B tensor.Backend] = nash.Problem[B]

// Config holds the hyperparameters of the bilevel game.
type Config = nash.Config

// DefaultConfig returns the default trainer settings.
func DefaultConfig() Config {
	return nash.DefaultConfig()
}

// Trainer plays the learner against a gradient-descent attacker.
type Trainer[B autodiff.BackwardCapable] = nash.Trainer[B]

// Result is the outcome of Trainer.Train.
type Result[B tensor.Backend] = nash.Result[B]

// NewTrainer validates cfg and returns a trainer. A nil logger disables
// logging.
func NewTrainer[B autodiff.BackwardCapable](backend B, cfg Config, logger *zap.Logger) (*Trainer[B], error) {
	return nash.NewTrainer(backend, cfg, logger)
}

// RidgeConfig configures the non-adversarial baseline.
type RidgeConfig = nash.RidgeConfig

// DefaultRidgeConfig returns the baseline settings.
func DefaultRidgeConfig() RidgeConfig {
	return nash.DefaultRidgeConfig()
}

// TrainRidge fits a copy of initial by gradient descent on the mean squared
// error plus λ(vᵀv + b²).
func TrainRidge[B autodiff.BackwardCapable](
	ctx context.Context,
	initial *Model[B],
	x, y *tensor.Tensor[B],
	cfg RidgeConfig,
	logger *zap.Logger,
) (*Model[B], []float64, error) {
	return nash.TrainRidge(ctx, initial, x, y, cfg, logger)
}

// Attack returns the attacker's exact best response to m.
func Attack[B autodiff.BackwardCapable](m *Model[B], x *tensor.Tensor[B], a Attacker[B]) (*tensor.Tensor[B], error) {
	return nash.Attack(m, x, a)
}

// RMSE returns the root mean squared error between pred and y.
func RMSE[B tensor.Backend](pred, y *tensor.Tensor[B]) (float64, error) {
	return nash.RMSE(pred, y)
}

// Evaluate returns the RMSE of m on x against y.
func Evaluate[B autodiff.BackwardCapable](m *Model[B], x, y *tensor.Tensor[B]) (float64, error) {
	return nash.Evaluate(m, x, y)
}

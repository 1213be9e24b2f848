// Package optim implements first-order optimizers for trainable parameters.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: gradient descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//
// Example usage:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.01})
//
//	for epoch := range epochs {
//	    backend.Tape().Clear()
//	    loss := computeLoss(params)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	}
package optim

import (
	"fmt"
	"strings"

	"github.com/born-ml/nash/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters in place.
	// Parameters absent from grads are left unchanged.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad resets per-step state. Gradients live in the map passed to
	// Step, so for the optimizers here this is a no-op kept for API parity.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Kind names an optimizer in configuration files.
type Kind string

// Supported optimizer kinds.
const (
	KindSGD  Kind = "sgd"
	KindAdam Kind = "adam"
)

// ParseKind parses an optimizer name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSGD, KindAdam:
		return k, nil
	default:
		return "", fmt.Errorf("unknown optimizer %q (want sgd or adam)", s)
	}
}

// Config is the configuration shared by all optimizers built through New.
type Config struct {
	Kind     Kind
	LR       float64
	Momentum float64 // SGD only
}

// New builds the optimizer described by cfg.
func New[B tensor.Backend](params []*Parameter[B], cfg Config) (Optimizer, error) {
	switch cfg.Kind {
	case KindSGD, "":
		return NewSGD(params, SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum}), nil
	case KindAdam:
		return NewAdam(params, AdamConfig{LR: cfg.LR}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", cfg.Kind)
	}
}

// getGradient retrieves the gradient for a parameter.
//
// Returns nil if no gradient is found (parameter wasn't part of computation graph).
func getGradient[B tensor.Backend](param *Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	grad := grads[param.Tensor().Raw()]
	if grad != nil && !grad.Shape().Equal(param.Tensor().Shape()) {
		panic(fmt.Sprintf("optim: gradient shape %v does not match parameter %q shape %v",
			grad.Shape(), param.Name(), param.Tensor().Shape()))
	}
	return grad
}

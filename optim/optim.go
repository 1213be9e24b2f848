// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides first-order optimizers.
//
// Example:
//
//	opt := optim.NewSGD(params, optim.SGDConfig{LR: 0.01})
//	for range epochs {
//	    backend.Tape().Clear()
//	    loss := computeLoss()
//	    opt.Step(autodiff.Backward(loss, backend))
//	}
package optim

import (
	"github.com/born-ml/nash/internal/optim"
	"github.com/born-ml/nash/internal/tensor"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config selects and configures an optimizer for New.
type Config = optim.Config

// Kind names an optimizer.
type Kind = optim.Kind

// Supported optimizer kinds.
const (
	KindSGD  = optim.KindSGD
	KindAdam = optim.KindAdam
)

// Parameter is a named trainable tensor.
type Parameter[B tensor.Backend] = optim.Parameter[B]

// NewParameter wraps t as a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return optim.NewParameter(name, t)
}

// New builds the optimizer described by cfg.
func New[B tensor.Backend](params []*Parameter[B], cfg Config) (Optimizer, error) {
	return optim.New(params, cfg)
}

// SGD represents the SGD optimizer with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD[B tensor.Backend](params []*Parameter[B], config SGDConfig) *SGD[B] {
	return optim.NewSGD(params, config)
}

// Adam represents the Adam optimizer.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
func NewAdam[B tensor.Backend](params []*Parameter[B], config AdamConfig) *Adam[B] {
	return optim.NewAdam(params, config)
}

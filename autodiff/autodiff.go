// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// It wraps any backend and records each operation on a gradient tape while
// the tape is recording. Backward walks the tape in reverse and returns the
// gradient of every recorded input.
//
// Example:
//
//	import (
//	    "github.com/born-ml/nash/autodiff"
//	    "github.com/born-ml/nash/backend/cpu"
//	    "github.com/born-ml/nash/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    backend.Tape().StartRecording()
//
//	    x := tensor.Full(tensor.Shape{2, 1}, 3, backend)
//	    loss := x.Square().Sum()
//
//	    grads := autodiff.Backward(loss, backend)
//	    _ = grads[x.Raw()] // 2x
//	}
package autodiff

import (
	"github.com/born-ml/nash/internal/autodiff"
	"github.com/born-ml/nash/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes the gradient of t with respect to every tensor on the
// tape. t must be the output of the last recorded operation.
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}

// GradOf returns the gradient recorded for x, or zeros shaped like x.
func GradOf(grads map[*tensor.RawTensor]*tensor.RawTensor, x *tensor.RawTensor) *tensor.RawTensor {
	return autodiff.GradOf(grads, x)
}

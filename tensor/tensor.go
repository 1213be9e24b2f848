// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/nash/internal/tensor"
)

// Shape is a (rows, cols) pair.
type Shape = tensor.Shape

// Scalar is the shape of a single value.
var Scalar = tensor.Scalar

// RawTensor is the backend-level storage of a tensor.
type RawTensor = tensor.RawTensor

// Backend is implemented by every compute backend.
type Backend = tensor.Backend

// Tensor is a matrix bound to a backend.
type Tensor[B Backend] = tensor.Tensor[B]

// New wraps raw storage in a tensor.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return tensor.New(raw, b)
}

// FromSlice creates a tensor from row-major data.
//
// Example:
//
//	x, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
func FromSlice[B Backend](data []float64, shape Shape, b B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, b)
}

// FromColumn creates an (n, 1) column.
func FromColumn[B Backend](values []float64, b B) *Tensor[B] {
	return tensor.FromColumn(values, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Zeros(shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return tensor.Ones(shape, b)
}

// Full creates a tensor filled with value.
func Full[B Backend](shape Shape, value float64, b B) *Tensor[B] {
	return tensor.Full(shape, value, b)
}

// Randn creates a tensor of standard normal samples.
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	return tensor.Randn(shape, rng, b)
}

// NewRNG returns a deterministic random source.
func NewRNG(seed uint64) *rand.Rand {
	return tensor.NewRNG(seed)
}

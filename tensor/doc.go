// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides two-dimensional float64 tensors backed by gonum
// dense matrices.
//
// # Overview
//
// Every value in nash is a matrix: feature tables are (n, d), weights and
// targets are columns, and losses are (1, 1). This package provides:
//   - Generic tensors bound to a compute backend (Tensor[B])
//   - Broadcasting of rows, columns, and scalars
//   - Deterministic random initialization from a seeded PCG source
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/nash/backend/cpu"
//	    "github.com/born-ml/nash/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Randn(tensor.Shape{4, 3}, tensor.NewRNG(1), backend)
//	    w := tensor.Ones(tensor.Shape{3, 1}, backend)
//	    y := x.MatMul(w).AddScalar(0.5) // (4, 1)
//	}
//
// # Broadcasting
//
// Binary element-wise operations accept operands whose dimensions are equal
// or 1, so a (1, 1) bias can be added to an (n, 1) column and an (n, 1)
// column can scale every column of an (n, d) matrix.
package tensor

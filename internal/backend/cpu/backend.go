// Package cpu implements the CPU backend on top of gonum's BLAS-backed matrices.
package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/nash/internal/parallel"
	"github.com/born-ml/nash/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	parallel parallel.Config
}

// New creates a new CPU backend with default row parallelism.
func New() *CPUBackend {
	return &CPUBackend{
		parallel: parallel.DefaultConfig(),
	}
}

// NewWithConfig creates a CPU backend with an explicit parallel config.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Add performs element-wise addition with broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b,
		func(dst *mat.Dense, x, y mat.Matrix) { dst.Add(x, y) },
		func(x, y float64) float64 { return x + y },
	)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b,
		func(dst *mat.Dense, x, y mat.Matrix) { dst.Sub(x, y) },
		func(x, y float64) float64 { return x - y },
	)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b,
		func(dst *mat.Dense, x, y mat.Matrix) { dst.MulElem(x, y) },
		func(x, y float64) float64 { return x * y },
	)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b,
		func(dst *mat.Dense, x, y mat.Matrix) { dst.DivElem(x, y) },
		func(x, y float64) float64 { return x / y },
	)
}

// binary dispatches to gonum for equal shapes and to the broadcast kernel otherwise.
func (cpu *CPUBackend) binary(
	name string,
	a, b *tensor.RawTensor,
	same func(dst *mat.Dense, x, y mat.Matrix),
	elem func(x, y float64) float64,
) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result := tensor.MustRaw(outShape)
	if !needsBroadcast {
		same(result.Dense(), a.Dense(), b.Dense())
		return result
	}

	broadcastBinary(result, a, b, elem, cpu.parallel)
	return result
}

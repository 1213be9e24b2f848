package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/nash/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Delegates to gonum's BLAS dgemm.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	m, k := a.Shape().Rows(), a.Shape().Cols()
	kAlt, n := b.Shape().Rows(), b.Shape().Cols()

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	var out mat.Dense
	out.Mul(a.Dense(), b.Dense())
	return tensor.Wrap(&out)
}

// Transpose returns a materialized transpose.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	return tensor.Wrap(mat.DenseCopyOf(t.Dense().T()))
}

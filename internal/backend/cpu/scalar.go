package cpu

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/nash/internal/tensor"
)

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	var out mat.Dense
	out.Scale(scalar, x.Dense())
	return tensor.Wrap(&out)
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return v + scalar }, x.Dense())
	return tensor.Wrap(&out)
}

// Sum reduces all elements to a (1, 1) tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.MustRaw(tensor.Scalar)
	result.Data()[0] = mat.Sum(x.Dense())
	return result
}

// Package tensor provides the core float64 tensor types used by the Nash
// training procedure.
//
// Storage is a gonum *mat.Dense. Tensors are two-dimensional: a column vector
// is (n, 1), a row vector (1, n), and a scalar (1, 1).
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RawTensor is the low-level tensor representation.
// It owns a contiguous row-major gonum matrix.
type RawTensor struct {
	dense *mat.Dense
	shape Shape
}

// NewRaw creates a zero-filled RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		dense: mat.NewDense(shape[0], shape[1], nil),
		shape: shape.Clone(),
	}, nil
}

// MustRaw is NewRaw that panics on an invalid shape.
// Backends use it for results whose shape has already been checked.
func MustRaw(shape Shape) *RawTensor {
	r, err := NewRaw(shape)
	if err != nil {
		panic(err)
	}
	return r
}

// FromDense creates a RawTensor holding a copy of m.
func FromDense(m mat.Matrix) *RawTensor {
	d := mat.DenseCopyOf(m)
	r, c := d.Dims()
	return &RawTensor{
		dense: d,
		shape: Shape{r, c},
	}
}

// Wrap takes ownership of d without copying.
// d must be a freshly allocated matrix that nothing else mutates.
func Wrap(d *mat.Dense) *RawTensor {
	r, c := d.Dims()
	return &RawTensor{
		dense: d,
		shape: Shape{r, c},
	}
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Dense returns the backing matrix. Mutating it mutates the tensor.
func (r *RawTensor) Dense() *mat.Dense {
	return r.dense
}

// Data returns the row-major backing slice. Mutating it mutates the tensor.
func (r *RawTensor) Data() []float64 {
	return r.dense.RawMatrix().Data
}

// At returns the element at (i, j).
func (r *RawTensor) At(i, j int) float64 {
	return r.dense.At(i, j)
}

// Set stores v at (i, j).
func (r *RawTensor) Set(i, j int, v float64) {
	r.dense.Set(i, j, v)
}

// Item returns the value of a single-element tensor.
func (r *RawTensor) Item() float64 {
	if r.NumElements() != 1 {
		panic(fmt.Sprintf("item: tensor of shape %v is not a scalar", r.shape))
	}
	return r.Data()[0]
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		dense: mat.DenseCopyOf(r.dense),
		shape: r.shape.Clone(),
	}
}

// CopyFrom overwrites the tensor's values with src. Shapes must match.
func (r *RawTensor) CopyFrom(src *RawTensor) {
	if !r.shape.Equal(src.shape) {
		panic(fmt.Sprintf("copy: shape mismatch %v vs %v", r.shape, src.shape))
	}
	r.dense.Copy(src.dense)
}

// String formats the tensor with gonum's matrix formatter.
func (r *RawTensor) String() string {
	return fmt.Sprintf("%v", mat.Formatted(r.dense, mat.Squeeze()))
}

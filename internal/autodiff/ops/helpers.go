package ops

import (
	"fmt"

	"github.com/born-ml/nash/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone on equal shapes so gradients never alias each other.
	if gradShape.Equal(target) {
		return grad.Clone()
	}

	result := grad
	if target.Rows() == 1 && result.Shape().Rows() > 1 {
		result = sumRows(result)
	}
	if target.Cols() == 1 && result.Shape().Cols() > 1 {
		result = sumCols(result)
	}

	if !result.Shape().Equal(target) {
		panic(fmt.Sprintf("reduceBroadcast: cannot reduce %v to %v", gradShape, target))
	}
	return result
}

// sumRows sums over rows, producing a (1, cols) tensor.
func sumRows(x *tensor.RawTensor) *tensor.RawTensor {
	rows, cols := x.Shape().Rows(), x.Shape().Cols()
	result := tensor.MustRaw(tensor.Shape{1, cols})
	out := result.Data()
	data := x.Data()
	for i := 0; i < rows; i++ {
		for j, v := range data[i*cols : (i+1)*cols] {
			out[j] += v
		}
	}
	return result
}

// sumCols sums over columns, producing a (rows, 1) tensor.
func sumCols(x *tensor.RawTensor) *tensor.RawTensor {
	rows, cols := x.Shape().Rows(), x.Shape().Cols()
	result := tensor.MustRaw(tensor.Shape{rows, 1})
	out := result.Data()
	data := x.Data()
	for i := 0; i < rows; i++ {
		var s float64
		for _, v := range data[i*cols : (i+1)*cols] {
			s += v
		}
		out[i] = s
	}
	return result
}

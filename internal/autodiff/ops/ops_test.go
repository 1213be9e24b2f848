package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/nash/internal/backend/cpu"
	"github.com/born-ml/nash/internal/tensor"
)

func fromSlice(t *testing.T, shape tensor.Shape, data ...float64) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape)
	require.NoError(t, err)
	copy(r.Data(), data)
	return r
}

func TestReduceBroadcast(t *testing.T) {
	grad := fromSlice(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	tests := []struct {
		name   string
		target tensor.Shape
		want   []float64
	}{
		{"same", tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6}},
		{"rows", tensor.Shape{1, 3}, []float64{5, 7, 9}},
		{"cols", tensor.Shape{2, 1}, []float64{6, 15}},
		{"scalar", tensor.Scalar, []float64{21}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := reduceBroadcast(grad, tt.target)
			assert.Equal(t, tt.target, out.Shape())
			assert.Equal(t, tt.want, out.Data())
		})
	}
}

func TestReduceBroadcast_SameShapeDoesNotAlias(t *testing.T) {
	grad := fromSlice(t, tensor.Shape{1, 2}, 1, 2)
	out := reduceBroadcast(grad, tensor.Shape{1, 2})
	out.Data()[0] = 99
	assert.Equal(t, 1.0, grad.Data()[0])
}

func TestReduceBroadcast_Incompatible(t *testing.T) {
	grad := fromSlice(t, tensor.Shape{2, 3})
	assert.Panics(t, func() { reduceBroadcast(grad, tensor.Shape{3, 3}) })
}

func TestSubOp_Backward(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
	b := fromSlice(t, tensor.Shape{2, 1}, 1, 1)
	out := backend.Sub(a, b)

	op := NewSubOp(a, b, out)
	grads := op.Backward(fromSlice(t, tensor.Shape{2, 2}, 1, 1, 1, 1), backend)

	require.Len(t, grads, 2)
	assert.Equal(t, []float64{1, 1, 1, 1}, grads[0].Data())
	assert.Equal(t, []float64{-2, -2}, grads[1].Data())
	assert.Equal(t, []*tensor.RawTensor{a, b}, op.Inputs())
	assert.Same(t, out, op.Output())
}

func TestMulOp_Backward_OuterProduct(t *testing.T) {
	backend := cpu.New()
	col := fromSlice(t, tensor.Shape{2, 1}, 1, 2)
	row := fromSlice(t, tensor.Shape{1, 3}, 3, 4, 5)
	out := backend.Mul(col, row)

	grads := NewMulOp(col, row, out).Backward(tensor.MustRaw(tensor.Shape{2, 3}), backend)
	assert.Equal(t, tensor.Shape{2, 1}, grads[0].Shape())
	assert.Equal(t, tensor.Shape{1, 3}, grads[1].Shape())

	ones := fromSlice(t, tensor.Shape{2, 3}, 1, 1, 1, 1, 1, 1)
	grads = NewMulOp(col, row, out).Backward(ones, backend)
	assert.Equal(t, []float64{12, 12}, grads[0].Data())
	assert.Equal(t, []float64{3, 3, 3}, grads[1].Data())
}

func TestMatMulOp_Backward(t *testing.T) {
	backend := cpu.New()
	a := fromSlice(t, tensor.Shape{1, 2}, 1, 2)
	b := fromSlice(t, tensor.Shape{2, 1}, 3, 4)
	out := backend.MatMul(a, b)

	grads := NewMatMulOp(a, b, out).Backward(fromSlice(t, tensor.Scalar, 2), backend)
	assert.Equal(t, []float64{6, 8}, grads[0].Data())
	assert.Equal(t, []float64{2, 4}, grads[1].Data())
}

func TestSumOp_Backward(t *testing.T) {
	backend := cpu.New()
	x := fromSlice(t, tensor.Shape{3, 1}, 1, 2, 3)
	out := backend.Sum(x)

	grads := NewSumOp(x, out).Backward(fromSlice(t, tensor.Scalar, -0.5), backend)
	assert.Equal(t, []float64{-0.5, -0.5, -0.5}, grads[0].Data())
}

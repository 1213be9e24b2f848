package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/nash/internal/parallel"
	"github.com/born-ml/nash/internal/tensor"
)

func raw(t *testing.T, shape tensor.Shape, data ...float64) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape)
	require.NoError(t, err)
	copy(r.Data(), data)
	return r
}

func TestCPUBackend_Name(t *testing.T) {
	assert.Equal(t, "CPU", New().Name())
}

func TestCPUBackend_ElementwiseSameShape(t *testing.T) {
	b := New()
	x := raw(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
	y := raw(t, tensor.Shape{2, 2}, 5, 6, 7, 8)

	tests := []struct {
		name string
		op   func(a, c *tensor.RawTensor) *tensor.RawTensor
		want []float64
	}{
		{"add", b.Add, []float64{6, 8, 10, 12}},
		{"sub", b.Sub, []float64{-4, -4, -4, -4}},
		{"mul", b.Mul, []float64{5, 12, 21, 32}},
		{"div", b.Div, []float64{1.0 / 5, 2.0 / 6, 3.0 / 7, 4.0 / 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.op(x, y)
			assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
			assert.InDeltaSlice(t, tt.want, out.Data(), 1e-12)
		})
	}

	// Inputs must be left untouched.
	assert.Equal(t, []float64{1, 2, 3, 4}, x.Data())
	assert.Equal(t, []float64{5, 6, 7, 8}, y.Data())
}

func TestCPUBackend_Broadcast(t *testing.T) {
	b := New()
	m := raw(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	t.Run("scalar", func(t *testing.T) {
		out := b.Add(m, raw(t, tensor.Scalar, 10))
		assert.Equal(t, []float64{11, 12, 13, 14, 15, 16}, out.Data())
	})

	t.Run("scalar on left", func(t *testing.T) {
		out := b.Sub(raw(t, tensor.Scalar, 10), m)
		assert.Equal(t, []float64{9, 8, 7, 6, 5, 4}, out.Data())
	})

	t.Run("column", func(t *testing.T) {
		out := b.Mul(m, raw(t, tensor.Shape{2, 1}, 2, 3))
		assert.Equal(t, []float64{2, 4, 6, 12, 15, 18}, out.Data())
	})

	t.Run("row", func(t *testing.T) {
		out := b.Add(m, raw(t, tensor.Shape{1, 3}, 1, 0, -1))
		assert.Equal(t, []float64{2, 2, 2, 5, 5, 5}, out.Data())
	})

	t.Run("outer", func(t *testing.T) {
		out := b.Mul(raw(t, tensor.Shape{2, 1}, 1, 2), raw(t, tensor.Shape{1, 3}, 1, 2, 3))
		assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
		assert.Equal(t, []float64{1, 2, 3, 2, 4, 6}, out.Data())
	})

	t.Run("incompatible", func(t *testing.T) {
		assert.PanicsWithValue(t,
			"add: shapes not compatible for broadcasting: [2, 3] vs [2, 2] (dimension 1: 3 vs 2)",
			func() { b.Add(m, raw(t, tensor.Shape{2, 2})) })
	})
}

func TestCPUBackend_BroadcastParallelMatchesSequential(t *testing.T) {
	rng := tensor.NewRNG(7)
	n := 3000
	x := tensor.MustRaw(tensor.Shape{n, 4})
	for i := range x.Data() {
		x.Data()[i] = rng.NormFloat64()
	}
	col := tensor.MustRaw(tensor.Shape{n, 1})
	for i := range col.Data() {
		col.Data()[i] = rng.NormFloat64()
	}

	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 100})
	seq := NewWithConfig(parallel.Sequential())

	assert.Equal(t, seq.Mul(x, col).Data(), par.Mul(x, col).Data())
}

func TestCPUBackend_MatMul(t *testing.T) {
	b := New()
	a := raw(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	c := raw(t, tensor.Shape{3, 2}, 7, 8, 9, 10, 11, 12)

	out := b.MatMul(a, c)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float64{58, 64, 139, 154}, out.Data())

	assert.Panics(t, func() { b.MatMul(a, a) })
}

func TestCPUBackend_Transpose(t *testing.T) {
	b := New()
	a := raw(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	out := b.Transpose(a)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, out.Data())

	out.Set(0, 0, 100)
	assert.Equal(t, 1.0, a.At(0, 0), "transpose must not alias its input")
}

func TestCPUBackend_ScalarAndSum(t *testing.T) {
	b := New()
	a := raw(t, tensor.Shape{2, 2}, 1, 2, 3, 4)

	assert.Equal(t, []float64{2, 4, 6, 8}, b.MulScalar(a, 2).Data())
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, b.AddScalar(a, -0.5).Data())

	sum := b.Sum(a)
	assert.Equal(t, tensor.Scalar, sum.Shape())
	assert.Equal(t, 10.0, sum.Item())
}

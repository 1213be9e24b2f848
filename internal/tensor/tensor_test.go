package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/nash/internal/backend/cpu"
	"github.com/born-ml/nash/internal/tensor"
)

func TestShape_Validate(t *testing.T) {
	tests := []struct {
		name    string
		shape   tensor.Shape
		wantErr bool
	}{
		{"matrix", tensor.Shape{3, 4}, false},
		{"scalar", tensor.Scalar, false},
		{"one dim", tensor.Shape{3}, true},
		{"three dims", tensor.Shape{1, 2, 3}, true},
		{"zero", tensor.Shape{0, 4}, true},
		{"negative", tensor.Shape{2, -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShape_Helpers(t *testing.T) {
	s := tensor.Shape{3, 4}
	assert.Equal(t, 3, s.Rows())
	assert.Equal(t, 4, s.Cols())
	assert.Equal(t, 12, s.NumElements())
	assert.Equal(t, "[3, 4]", s.String())

	c := s.Clone()
	c[0] = 9
	assert.Equal(t, 3, s[0])
	assert.True(t, s.Equal(tensor.Shape{3, 4}))
	assert.False(t, s.Equal(c))
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      tensor.Shape
		want      tensor.Shape
		broadcast bool
		wantErr   bool
	}{
		{tensor.Shape{3, 1}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, true, false},
		{tensor.Shape{1, 5}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, true, false},
		{tensor.Scalar, tensor.Shape{3, 5}, tensor.Shape{3, 5}, true, false},
		{tensor.Shape{3, 5}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, false, false},
		{tensor.Shape{3, 4}, tensor.Shape{3, 5}, nil, false, true},
	}
	for _, tt := range tests {
		got, broadcast, err := tensor.BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.broadcast, broadcast)
	}
}

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, 6.0, x.Raw().At(1, 2))
	assert.Equal(t, 2.0, x.Raw().At(0, 1))

	_, err = tensor.FromSlice([]float64{1, 2}, tensor.Shape{2, 3}, backend)
	assert.Error(t, err)
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	assert.Equal(t, []float64{0, 0, 0, 0}, tensor.Zeros(tensor.Shape{2, 2}, backend).Data())
	assert.Equal(t, []float64{1, 1}, tensor.Ones(tensor.Shape{1, 2}, backend).Data())
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, tensor.FromColumn([]float64{0.5, 0.5, 0.5}, backend).Data())
	assert.Equal(t, tensor.Shape{3, 1}, tensor.FromColumn([]float64{1, 2, 3}, backend).Shape())
}

func TestRandn_Deterministic(t *testing.T) {
	backend := cpu.New()

	a := tensor.Randn(tensor.Shape{4, 3}, tensor.NewRNG(42), backend)
	b := tensor.Randn(tensor.Shape{4, 3}, tensor.NewRNG(42), backend)
	c := tensor.Randn(tensor.Shape{4, 3}, tensor.NewRNG(43), backend)

	assert.Equal(t, a.Data(), b.Data())
	assert.NotEqual(t, a.Data(), c.Data())
}

func TestTensor_FluentOps(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 4, 6, 8}, x.Add(x).Data())
	assert.Equal(t, []float64{1, 4, 9, 16}, x.Square().Data())
	assert.Equal(t, []float64{1, 3, 2, 4}, x.T().Data())
	assert.Equal(t, []float64{7, 10, 15, 22}, x.MatMul(x).Data())
	assert.Equal(t, 10.0, x.Sum().Item())
	assert.Equal(t, 20.0, x.MulScalar(2).Sum().Item())
	assert.Equal(t, 14.0, x.AddScalar(1).Sum().Item())
	assert.Equal(t, []float64{0, 0, 0, 0}, x.Sub(x).Data())
	assert.Equal(t, []float64{1, 1, 1, 1}, x.Div(x).Data())
}

func TestTensor_CloneIsIndependent(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones(tensor.Shape{2, 2}, backend)
	y := x.Clone()
	y.Data()[0] = 5

	assert.Equal(t, 1.0, x.Data()[0])
	assert.NotSame(t, x.Raw(), x.Detach().Raw())
}

func TestRawTensor_ItemPanicsOnMatrix(t *testing.T) {
	r := tensor.MustRaw(tensor.Shape{2, 2})
	assert.Panics(t, func() { r.Item() })
}

func TestRawTensor_CopyFrom(t *testing.T) {
	dst := tensor.MustRaw(tensor.Shape{1, 2})
	src := tensor.MustRaw(tensor.Shape{1, 2})
	src.Data()[1] = 3

	dst.CopyFrom(src)
	assert.Equal(t, []float64{0, 3}, dst.Data())

	assert.Panics(t, func() { dst.CopyFrom(tensor.MustRaw(tensor.Scalar)) })
}

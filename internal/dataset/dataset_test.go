package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/nash/internal/dataset"
	"github.com/born-ml/nash/internal/tensor"
)

const wineSample = `"fixed acidity";"volatile acidity";"alcohol";"quality"
7;0.27;8.8;6
6.3;0.3;9.5;6
8.1;0.28;10.1;6
7.2;0.23;9.9;5
6.2;0.32;9.6;5
`

func TestReadCSV_Wine(t *testing.T) {
	frame, err := dataset.ReadCSV(strings.NewReader(wineSample), ';', "quality")
	require.NoError(t, err)

	assert.Equal(t, []string{"fixed acidity", "volatile acidity", "alcohol"}, frame.Features)
	assert.Equal(t, "quality", frame.Target)
	assert.Equal(t, 5, frame.Rows())
	assert.Equal(t, []float64{6, 6, 6, 5, 5}, frame.Y)

	r, c := frame.X.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{6.3, 0.3, 9.5}, mat.Row(nil, 1, frame.X))
}

func TestReadCSV_TargetInMiddle(t *testing.T) {
	frame, err := dataset.ReadCSV(strings.NewReader("a,y,b\n1,10,2\n3,20,4\n"), ',', "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, frame.Features)
	assert.Equal(t, []float64{10, 20}, frame.Y)
	assert.Equal(t, []float64{3, 4}, mat.Row(nil, 1, frame.X))
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", dataset.ErrEmptyDataset},
		{"header only", "a;quality\n", dataset.ErrEmptyDataset},
		{"missing target", "a;b\n1;2\n", dataset.ErrMissingTarget},
		{"short row", "a;quality\n1;2\n3\n", dataset.ErrMalformedRow},
		{"not a number", "a;quality\n1;2\nx;3\n", dataset.ErrMalformedRow},
		{"target only", "quality\n1\n", dataset.ErrMalformedRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.ReadCSV(strings.NewReader(tt.input), ';', "quality")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadCSV_ErrorNamesLine(t *testing.T) {
	_, err := dataset.ReadCSV(strings.NewReader("a;quality\n1;2\n1;oops\n"), ';', "quality")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), `"quality"`)

	_, err = dataset.ReadCSV(strings.NewReader("a;b;quality\n1;2;3\n4;5;6\nbad;5;6\n"), ';', "quality")
	require.ErrorIs(t, err, dataset.ErrMalformedRow)
	assert.Contains(t, err.Error(), `line 4 column "a"`)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wine.csv")
	require.NoError(t, os.WriteFile(path, []byte(wineSample), 0o600))

	frame, err := dataset.LoadCSV(path, ';', "quality")
	require.NoError(t, err)
	assert.Equal(t, 5, frame.Rows())

	_, err = dataset.LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), ';', "quality")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func randomMatrix(seed uint64, n, d int) *mat.Dense {
	rng := tensor.NewRNG(seed)
	x := mat.NewDense(n, d, nil)
	for i := range n {
		for j := range d {
			// correlated columns so the components are not axis aligned
			x.Set(i, j, rng.NormFloat64()*float64(j+1)+float64(j))
		}
		x.Set(i, d-1, x.At(i, d-1)+x.At(i, 0))
	}
	return x
}

func TestPCA(t *testing.T) {
	x := randomMatrix(1, 200, 4)
	proj, err := dataset.PCA(x)
	require.NoError(t, err)

	r, c := proj.Data.Dims()
	assert.Equal(t, 200, r)
	assert.Equal(t, 4, c)

	// Projected columns are centered, uncorrelated, and carry the
	// component variances in descending order.
	assert.True(t, sortedDescending(proj.Variances))
	for j := range c {
		col := mat.Col(nil, j, proj.Data)
		assert.InDelta(t, 0, stat.Mean(col, nil), 1e-9)
		assert.InDelta(t, proj.Variances[j], stat.Variance(col, nil), 1e-8*proj.Variances[0])
		for k := j + 1; k < c; k++ {
			other := mat.Col(nil, k, proj.Data)
			assert.InDelta(t, 0, stat.Covariance(col, other, nil), 1e-8*proj.Variances[0])
		}
	}

	// Full-rank projection preserves total variance.
	var total float64
	for j := range 4 {
		total += stat.Variance(mat.Col(nil, j, x), nil)
	}
	assert.InDelta(t, total, floats.Sum(proj.Variances), 1e-8*total)
}

func sortedDescending(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] > v[i-1] {
			return false
		}
	}
	return true
}

func TestPCA_TooFewRows(t *testing.T) {
	_, err := dataset.PCA(mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
}

func TestTrainTestSplit(t *testing.T) {
	n := 10
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := range n {
		x.Set(i, 0, float64(i))
		x.Set(i, 1, float64(-i))
		y[i] = float64(i)
	}

	sp, err := dataset.TrainTestSplit(x, y, 0.3, tensor.NewRNG(1))
	require.NoError(t, err)
	assert.Len(t, sp.TestY, 3)
	assert.Len(t, sp.TrainY, 7)

	// rows stay aligned with their targets and nothing is lost
	seen := make(map[float64]bool)
	for i, v := range sp.TrainY {
		assert.Equal(t, v, sp.TrainX.At(i, 0))
		assert.Equal(t, -v, sp.TrainX.At(i, 1))
		seen[v] = true
	}
	for i, v := range sp.TestY {
		assert.Equal(t, v, sp.TestX.At(i, 0))
		seen[v] = true
	}
	assert.Len(t, seen, n)

	again, err := dataset.TrainTestSplit(x, y, 0.3, tensor.NewRNG(1))
	require.NoError(t, err)
	assert.Equal(t, sp.TestY, again.TestY)
}

func TestTrainTestSplit_Errors(t *testing.T) {
	x := mat.NewDense(3, 1, nil)
	_, err := dataset.TrainTestSplit(x, []float64{1, 2}, 0.3, tensor.NewRNG(1))
	assert.ErrorIs(t, err, dataset.ErrInvalidSplit)

	_, err = dataset.TrainTestSplit(x, []float64{1, 2, 3}, 1.5, tensor.NewRNG(1))
	assert.ErrorIs(t, err, dataset.ErrInvalidSplit)

	_, err = dataset.TrainTestSplit(mat.NewDense(1, 1, nil), []float64{1}, 0.3, tensor.NewRNG(1))
	assert.ErrorIs(t, err, dataset.ErrInvalidSplit)
}

func TestStandardize(t *testing.T) {
	sp := &dataset.Split{
		TrainX: mat.NewDense(3, 2, []float64{1, 5, 2, 5, 3, 5}),
		TestX:  mat.NewDense(1, 2, []float64{4, 7}),
	}

	scaler, err := dataset.Standardize(sp)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, scaler.Mean)
	assert.InDeltaSlice(t, []float64{1, 0}, scaler.Std, 1e-12)

	// column 0: (v - 2) / 1, column 1 has zero spread and is only centered
	assert.InDeltaSlice(t, []float64{-1, 0, 0, 0, 1, 0}, sp.TrainX.RawMatrix().Data, 1e-12)
	assert.InDeltaSlice(t, []float64{2, 2}, sp.TestX.RawMatrix().Data, 1e-12)

	_, err = scaler.Transform(mat.NewDense(1, 3, nil))
	assert.Error(t, err)
}

func TestPrepare(t *testing.T) {
	x := randomMatrix(2, 100, 3)
	y := make([]float64, 100)
	for i := range y {
		y[i] = float64(i % 7)
	}

	prep, err := dataset.Prepare(&dataset.Frame{X: x, Y: y}, dataset.DefaultTestFraction, tensor.NewRNG(3))
	require.NoError(t, err)
	assert.Len(t, prep.TrainY, 70)
	assert.Len(t, prep.TestY, 30)

	for j := range 3 {
		col := mat.Col(nil, j, prep.TrainX)
		mean, std := stat.MeanStdDev(col, nil)
		assert.InDelta(t, 0, mean, 1e-9)
		assert.InDelta(t, 1, std, 1e-9)
	}
}

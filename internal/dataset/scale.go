package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler holds per-column statistics for z-score standardization.
type Scaler struct {
	Mean []float64
	Std  []float64 // unbiased (n-1) standard deviation
}

// FitScaler computes column means and unbiased standard deviations of x.
func FitScaler(x mat.Matrix) (*Scaler, error) {
	n, d := x.Dims()
	if n < 2 {
		return nil, fmt.Errorf("%w: standardization needs at least 2 rows, got %d", ErrEmptyDataset, n)
	}
	s := &Scaler{Mean: make([]float64, d), Std: make([]float64, d)}
	col := make([]float64, n)
	for j := range d {
		mat.Col(col, j, x)
		s.Mean[j], s.Std[j] = stat.MeanStdDev(col, nil)
	}
	return s, nil
}

// Transform returns (x - mean) / std. Columns with zero spread are only
// centered.
func (s *Scaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	_, d := x.Dims()
	if d != len(s.Mean) {
		return nil, fmt.Errorf("dataset: scaler fitted on %d columns, got %d", len(s.Mean), d)
	}
	out := mat.DenseCopyOf(x)
	out.Apply(func(_, j int, v float64) float64 {
		v -= s.Mean[j]
		if s.Std[j] > 0 {
			v /= s.Std[j]
		}
		return v
	}, out)
	return out, nil
}

// Standardize fits a scaler on the training features and applies it to
// both sides of sp in place.
func Standardize(sp *Split) (*Scaler, error) {
	scaler, err := FitScaler(sp.TrainX)
	if err != nil {
		return nil, err
	}
	if sp.TrainX, err = scaler.Transform(sp.TrainX); err != nil {
		return nil, err
	}
	if sp.TestX, err = scaler.Transform(sp.TestX); err != nil {
		return nil, err
	}
	return scaler, nil
}

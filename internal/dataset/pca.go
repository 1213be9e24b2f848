package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projection is the result of a principal component analysis.
type Projection struct {
	Data       *mat.Dense // centered samples expressed in the component basis
	Components *mat.Dense // (d, k) principal directions as columns
	Variances  []float64  // variance along each component, descending
	Mean       []float64  // column means removed before projecting
}

// PCA projects x onto all of its principal components.
func PCA(x mat.Matrix) (*Projection, error) {
	n, d := x.Dims()
	if n < 2 {
		return nil, fmt.Errorf("%w: pca needs at least 2 rows, got %d", ErrEmptyDataset, n)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("dataset: principal component analysis failed to converge")
	}
	var components mat.Dense
	pc.VectorsTo(&components)
	variances := pc.VarsTo(nil)

	mean := make([]float64, d)
	for j := range d {
		mean[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}

	centered := mat.DenseCopyOf(x)
	centered.Apply(func(_, j int, v float64) float64 {
		return v - mean[j]
	}, centered)

	var projected mat.Dense
	projected.Mul(centered, &components)

	return &Projection{
		Data:       &projected,
		Components: &components,
		Variances:  variances,
		Mean:       mean,
	}, nil
}

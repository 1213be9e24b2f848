package dataset

import (
	"math/rand/v2"
)

// Prepared is a frame after projection, splitting, and standardization.
type Prepared struct {
	*Split
	Projection *Projection
	Scaler     *Scaler
}

// Prepare projects f onto its principal components, splits the rows, and
// standardizes both sides with the training statistics.
func Prepare(f *Frame, testFraction float64, rng *rand.Rand) (*Prepared, error) {
	proj, err := PCA(f.X)
	if err != nil {
		return nil, err
	}
	split, err := TrainTestSplit(proj.Data, f.Y, testFraction, rng)
	if err != nil {
		return nil, err
	}
	scaler, err := Standardize(split)
	if err != nil {
		return nil, err
	}
	return &Prepared{Split: split, Projection: proj, Scaler: scaler}, nil
}

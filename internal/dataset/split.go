package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// DefaultTestFraction is the share of rows held out for testing.
const DefaultTestFraction = 0.3

// Split is a train/test partition of a table.
type Split struct {
	TrainX *mat.Dense
	TrainY []float64
	TestX  *mat.Dense
	TestY  []float64
}

// TrainTestSplit shuffles the rows with rng and holds out
// ceil(testFraction * n) of them for testing.
func TrainTestSplit(x mat.Matrix, y []float64, testFraction float64, rng *rand.Rand) (*Split, error) {
	n, _ := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("%w: %d feature rows, %d targets", ErrInvalidSplit, n, len(y))
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("%w: test fraction %g not in (0, 1)", ErrInvalidSplit, testFraction)
	}
	// 0.3 * 10 is 3.0000000000000004 in float64
	nTest := int(math.Ceil(testFraction*float64(n) - 1e-9))
	if nTest < 1 || n-nTest < 1 {
		return nil, fmt.Errorf("%w: %d rows cannot be split with test fraction %g", ErrInvalidSplit, n, testFraction)
	}

	perm := rng.Perm(n)
	testX, testY := gatherRows(x, y, perm[:nTest])
	trainX, trainY := gatherRows(x, y, perm[nTest:])

	return &Split{TrainX: trainX, TrainY: trainY, TestX: testX, TestY: testY}, nil
}

func gatherRows(x mat.Matrix, y []float64, idx []int) (*mat.Dense, []float64) {
	_, d := x.Dims()
	out := mat.NewDense(len(idx), d, nil)
	targets := make([]float64, len(idx))
	for i, row := range idx {
		for j := range d {
			out.Set(i, j, x.At(row, j))
		}
		targets[i] = y[row]
	}
	return out, targets
}

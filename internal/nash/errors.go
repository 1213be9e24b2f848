package nash

import "errors"

var (
	// ErrShapeMismatch is returned when data, targets, or attacker
	// parameters disagree on the number of rows or features.
	ErrShapeMismatch = errors.New("nash: shape mismatch")

	// ErrInvalidConfig is returned for out-of-range hyperparameters.
	ErrInvalidConfig = errors.New("nash: invalid config")

	// ErrDiverged is returned when the learner loss stops being finite.
	ErrDiverged = errors.New("nash: training diverged")
)

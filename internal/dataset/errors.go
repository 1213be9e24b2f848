package dataset

import "errors"

var (
	// ErrEmptyDataset is returned when a file has a header but no rows.
	ErrEmptyDataset = errors.New("dataset: no rows")

	// ErrMissingTarget is returned when the target column is not in the header.
	ErrMissingTarget = errors.New("dataset: target column not found")

	// ErrMalformedRow is returned for rows with the wrong field count or a
	// non-numeric value.
	ErrMalformedRow = errors.New("dataset: malformed row")

	// ErrInvalidSplit is returned when a split would leave a side empty.
	ErrInvalidSplit = errors.New("dataset: invalid split")
)

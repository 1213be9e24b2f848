// Package dataset loads tabular regression data and prepares it for
// training: principal component projection, a shuffled train/test split,
// and z-score standardization fitted on the training side.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Frame is a numeric table with one column split out as the target.
type Frame struct {
	Features []string   // feature column names in file order
	Target   string     // target column name
	X        *mat.Dense // (n, d) features
	Y        []float64  // n targets
}

// Rows returns the number of samples.
func (f *Frame) Rows() int {
	return len(f.Y)
}

// LoadCSV reads a delimited file with a header row.
func LoadCSV(path string, sep rune, target string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	frame, err := ReadCSV(file, sep, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// ReadCSV parses a delimited table from r. Every column must be numeric.
func ReadCSV(r io.Reader, sep rune, target string) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	// ReuseRecord recycles the backing array on the next Read.
	header = slices.Clone(header)

	targetIdx := -1
	features := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == target {
			targetIdx = i
			continue
		}
		features = append(features, name)
	}
	if targetIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingTarget, target)
	}

	var values, y []float64
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d",
				ErrMalformedRow, line, len(record), len(header))
		}
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", ErrMalformedRow, line, header[i], err)
			}
			if i == targetIdx {
				y = append(y, v)
			} else {
				values = append(values, v)
			}
		}
	}

	if len(y) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no feature columns besides %q", ErrMalformedRow, target)
	}

	return &Frame{
		Features: features,
		Target:   target,
		X:        mat.NewDense(len(y), len(features), values),
		Y:        y,
	}, nil
}

package tensor

import "fmt"

// Shape represents the dimensions of a tensor as (rows, cols).
// Every tensor in this package is two-dimensional; a scalar is {1, 1}.
type Shape []int

// Scalar is the shape of a single-element tensor.
var Scalar = Shape{1, 1}

// Rows returns the first dimension.
func (s Shape) Rows() int {
	return s[0]
}

// Cols returns the second dimension.
func (s Shape) Cols() int {
	return s[1]
}

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that the shape is 2-D with positive dimensions.
func (s Shape) Validate() error {
	if len(s) != 2 {
		return fmt.Errorf("shape %v: expected 2 dimensions, got %d", s, len(s))
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as [rows, cols].
func (s Shape) String() string {
	if len(s) != 2 {
		return fmt.Sprintf("%v", []int(s))
	}
	return fmt.Sprintf("[%d, %d]", s[0], s[1])
}

// BroadcastShapes applies NumPy broadcasting to two 2-D shapes.
//
// Dimensions are compatible when they are equal or one of them is 1.
// Returns the broadcast shape, whether broadcasting is needed, and an error
// if the shapes are incompatible.
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 1) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	if len(a) != 2 || len(b) != 2 {
		return nil, false, fmt.Errorf("broadcast requires 2-D shapes: %v vs %v", a, b)
	}

	result := make(Shape, 2)
	needsBroadcast := false

	for i := 0; i < 2; i++ {
		aDim, bDim := a[i], b[i]
		switch {
		case aDim == bDim:
			result[i] = aDim
		case aDim == 1:
			result[i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[i] = aDim
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}

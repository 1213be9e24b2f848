package tensor

// Backend defines the interface that compute backends implement.
// Backends handle the actual computation for tensor operations; the autodiff
// package decorates a Backend to record those operations on a tape.
//
// Binary element-wise operations broadcast size-1 dimensions.
type Backend interface {
	// Element-wise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor
	Transpose(t *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar float64) *RawTensor
	AddScalar(x *RawTensor, scalar float64) *RawTensor

	// Sum reduces all elements to a (1, 1) tensor.
	Sum(x *RawTensor) *RawTensor

	// Name returns the backend name.
	Name() string
}

package tensor

import "fmt"

// Tensor is a value that exclusively owns one Adapter. Every operation is
// delegated to the Adapter's Backend.
//
// Copying the pointer aliases the tensor; use Copy for an independent value.
//
// Example:
//
//	b, _ := tensor.DefaultBackend()
//	x, _ := tensor.FullOn(b, tensor.Shape{2, 3}, 1.5, tensor.Float32)
//	y, _ := tensor.Exp(x)
type Tensor struct {
	impl Adapter
}

// New wraps an adapter. The tensor takes ownership of impl.
func New(impl Adapter) *Tensor {
	if impl == nil {
		panic("tensor: nil adapter")
	}
	return &Tensor{impl: impl}
}

// Empty creates an empty Float32 tensor of shape [0] on the default backend.
func Empty() (*Tensor, error) {
	return Full(Shape{0}, 0, Float32)
}

// Full creates a tensor filled with value on the default backend.
func Full(shape Shape, value float64, dtype DataType) (*Tensor, error) {
	b, err := DefaultBackend()
	if err != nil {
		return nil, err
	}
	return FullOn(b, shape, value, dtype)
}

// FullOn creates a tensor filled with value on backend b.
func FullOn(b Backend, shape Shape, value float64, dtype DataType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("full: %w: %w", ErrInvalidArgument, err)
	}
	return b.Full(shape, value, dtype)
}

// FromSlice creates a tensor on backend b holding a copy of data.
func FromSlice(b Backend, data []float64, shape Shape, dtype DataType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("fromSlice: %w: %w", ErrInvalidArgument, err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("fromSlice: shape %v requires %d elements, but got %d: %w",
			shape, shape.NumElements(), len(data), ErrInvalidArgument)
	}
	return b.FromSlice(data, shape, dtype)
}

// Copy returns a deep copy. Mutating either tensor never affects the other.
func (t *Tensor) Copy() *Tensor {
	return &Tensor{impl: t.impl.Clone()}
}

// Assign moves the adapter of src into t. src is left empty and must not be
// used afterwards.
func (t *Tensor) Assign(src *Tensor) {
	t.impl = src.impl
	src.impl = nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.impl.Shape()
}

// Type returns the tensor's element type.
func (t *Tensor) Type() DataType {
	return t.impl.DType()
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.impl.Shape().NumElements()
}

// AsType returns a copy converted to dtype.
func (t *Tensor) AsType(dtype DataType) (*Tensor, error) {
	impl, err := t.impl.AsType(dtype)
	if err != nil {
		return nil, err
	}
	return New(impl), nil
}

// Index returns a copy of the elements selected by indices.
//
// Example:
//
//	row, _ := x.Index(tensor.At(1))                   // second row
//	cols, _ := x.Index(tensor.Span, tensor.Range(0, 2)) // first two columns
func (t *Tensor) Index(indices ...Index) (*Tensor, error) {
	impl, err := t.impl.Index(indices)
	if err != nil {
		return nil, err
	}
	return New(impl), nil
}

// BackendType returns the type tag of the backend owning the tensor.
func (t *Tensor) BackendType() BackendType {
	return t.impl.BackendType()
}

// Backend returns the backend owning the tensor.
func (t *Tensor) Backend() Backend {
	return t.impl.Backend()
}

// Adapter returns the underlying adapter.
// Used by backend implementations for low-level access.
func (t *Tensor) Adapter() Adapter {
	return t.impl
}

// Scalar returns the first element as float64, forcing deferred work.
func (t *Tensor) Scalar() (float64, error) {
	return t.impl.Backend().Scalar(t)
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	if t.impl == nil {
		return "Tensor[empty]"
	}
	return fmt.Sprintf("Tensor[%s]%v on %s", t.impl.DType(), t.impl.Shape(), t.impl.BackendType())
}

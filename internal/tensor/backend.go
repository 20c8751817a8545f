package tensor

// BackendType identifies a numeric execution engine.
type BackendType int

// Known backend types.
const (
	CPU BackendType = iota
	Mock
	Stub
)

// String returns a human-readable backend type name.
func (bt BackendType) String() string {
	switch bt {
	case CPU:
		return "CPU"
	case Mock:
		return "Mock"
	case Stub:
		return "Stub"
	default:
		return "Unknown"
	}
}

// Adapter is the backend-specific storage behind a Tensor.
// Each Adapter is owned by exactly one Tensor; Clone must return storage
// that shares nothing mutable with the receiver.
type Adapter interface {
	Backend() Backend
	BackendType() BackendType
	Shape() Shape
	DType() DataType

	// Clone returns an independent deep copy.
	Clone() Adapter

	// AsType returns a copy converted to dtype.
	AsType(dtype DataType) (Adapter, error)

	// Index returns a copy of the selected elements.
	Index(indices []Index) (Adapter, error)
}

// Backend defines the operation surface every execution engine implements.
// Backends receive Tensors whose adapters they created; operands have been
// checked for a matching BackendType before a multi-tensor method is called.
//
// Implementations:
//   - internal/backend/cpu: reference engine with collective support
//   - MockBackend: call-counting engine for tests
type Backend interface {
	// Metadata
	Type() BackendType
	Name() string

	// Construction
	Full(shape Shape, value float64, dtype DataType) (*Tensor, error)
	FromSlice(data []float64, shape Shape, dtype DataType) (*Tensor, error)

	// Unary operations
	Exp(x *Tensor) (*Tensor, error)
	Log(x *Tensor) (*Tensor, error)
	Negative(x *Tensor) (*Tensor, error)
	LogicalNot(x *Tensor) (*Tensor, error)
	Log1p(x *Tensor) (*Tensor, error)
	Sin(x *Tensor) (*Tensor, error)
	Cos(x *Tensor) (*Tensor, error)
	Sqrt(x *Tensor) (*Tensor, error)
	Tanh(x *Tensor) (*Tensor, error)
	Absolute(x *Tensor) (*Tensor, error)
	IsNaN(x *Tensor) (*Tensor, error)
	Clip(x, low, high *Tensor) (*Tensor, error)

	// Binary operations
	Minimum(a, b *Tensor) (*Tensor, error)
	Maximum(a, b *Tensor) (*Tensor, error)
	Power(a, b *Tensor) (*Tensor, error)
	MulScalar(x *Tensor, scalar float64) (*Tensor, error)

	// Reductions; empty axes reduce over every dimension.
	Amin(x *Tensor, axes []int) (*Tensor, error)
	Amax(x *Tensor, axes []int) (*Tensor, error)
	Sum(x *Tensor, axes []int) (*Tensor, error)
	Mean(x *Tensor, axes []int) (*Tensor, error)
	Var(x *Tensor, axes []int, bias bool) (*Tensor, error)
	Norm(x *Tensor) (float64, error)

	// Scalar reads the first element. It forces any deferred work on x.
	Scalar(x *Tensor) (float64, error)

	// Collectives. AllReduce sums x in place across every participating
	// process. With async set the call may return before completion; the
	// result is guaranteed only after SyncCollective.
	AllReduce(x *Tensor, async bool) error
	AllReduceMultiple(xs []*Tensor, async, contiguous bool) error
	SyncCollective() error
}

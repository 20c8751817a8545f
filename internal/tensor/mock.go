package tensor

import (
	"fmt"
	"math"
	"sync"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a naive backend for testing. It counts calls per operation
// and can simulate a deferred engine whose collectives only run once a
// result is read.
type MockBackend struct {
	// Replicas multiplies AllReduce inputs, simulating that many identical
	// processes. Zero is treated as 1.
	Replicas int

	// Lazy defers AllReduce until Scalar or SyncCollective.
	Lazy bool

	bt BackendType

	mu           sync.Mutex
	calls        map[string]int
	pending      []*mockAdapter
	materialized int
}

// NewMockBackend creates a MockBackend with type tag Mock.
func NewMockBackend() *MockBackend {
	return NewMockBackendAs(Mock)
}

// NewMockBackendAs creates a MockBackend reporting the given type tag.
func NewMockBackendAs(bt BackendType) *MockBackend {
	return &MockBackend{bt: bt, calls: make(map[string]int)}
}

// Type returns the backend type tag.
func (m *MockBackend) Type() BackendType {
	return m.bt
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Calls returns how many times op was invoked.
func (m *MockBackend) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Materialized returns how many deferred collectives have been evaluated.
func (m *MockBackend) Materialized() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.materialized
}

// Pending returns how many deferred collectives have not been evaluated.
func (m *MockBackend) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *MockBackend) record(op string) {
	m.mu.Lock()
	m.calls[op]++
	m.mu.Unlock()
}

type mockAdapter struct {
	backend *MockBackend
	shape   Shape
	dtype   DataType
	data    []float64

	// deferred points at the adapter whose collective must run before data
	// is meaningful; refresh recomputes data once it has.
	deferred *mockAdapter
	refresh  func()
}

// derive runs compute to fill out from srcs. If any source waits on a
// deferred collective, out inherits it and replays compute once the
// collective has been evaluated.
func derive(out *mockAdapter, compute func(), srcs ...*mockAdapter) {
	compute()
	var refresh []func()
	for _, a := range srcs {
		if a.deferred == nil {
			continue
		}
		out.deferred = a.deferred
		if a.refresh != nil {
			refresh = append(refresh, a.refresh)
		}
	}
	if out.deferred == nil {
		return
	}
	out.refresh = func() {
		for _, r := range refresh {
			r()
		}
		compute()
	}
}

// force evaluates the deferred collectives a depends on and brings a's data
// up to date.
func (a *mockAdapter) force() {
	if a.deferred == nil {
		return
	}
	a.backend.materialize()
	if a.refresh != nil {
		a.refresh()
	}
	a.deferred, a.refresh = nil, nil
}

func (a *mockAdapter) Backend() Backend         { return a.backend }
func (a *mockAdapter) BackendType() BackendType { return a.backend.bt }
func (a *mockAdapter) Shape() Shape             { return a.shape }
func (a *mockAdapter) DType() DataType          { return a.dtype }

func (a *mockAdapter) Clone() Adapter {
	out := &mockAdapter{
		backend: a.backend,
		shape:   a.shape.Clone(),
		dtype:   a.dtype,
		data:    make([]float64, len(a.data)),
	}
	derive(out, func() { copy(out.data, a.data) }, a)
	return out
}

func (a *mockAdapter) AsType(dtype DataType) (Adapter, error) {
	a.backend.record("astype")
	a.force()
	out := a.backend.alloc(a.shape, dtype)
	for i, v := range a.data {
		out.data[i] = CastValue(v, dtype)
	}
	return out, nil
}

func (a *mockAdapter) Index(indices []Index) (Adapter, error) {
	a.backend.record("index")
	a.force()
	data, shape, err := IndexData(a.data, a.shape, indices)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	return &mockAdapter{backend: a.backend, shape: shape, dtype: a.dtype, data: data}, nil
}

func (m *MockBackend) alloc(shape Shape, dtype DataType) *mockAdapter {
	return &mockAdapter{
		backend: m,
		shape:   shape.Clone(),
		dtype:   dtype,
		data:    make([]float64, shape.NumElements()),
	}
}

func (m *MockBackend) adapter(op string, t *Tensor) (*mockAdapter, error) {
	a, ok := t.Adapter().(*mockAdapter)
	if !ok || a.backend != m {
		return nil, fmt.Errorf("%s: tensor does not belong to this mock backend: %w", op, ErrInvalidArgument)
	}
	return a, nil
}

// Full creates a tensor filled with value.
func (m *MockBackend) Full(shape Shape, value float64, dtype DataType) (*Tensor, error) {
	m.record("full")
	out := m.alloc(shape, dtype)
	v := CastValue(value, dtype)
	for i := range out.data {
		out.data[i] = v
	}
	return New(out), nil
}

// FromSlice creates a tensor holding a copy of data.
func (m *MockBackend) FromSlice(data []float64, shape Shape, dtype DataType) (*Tensor, error) {
	m.record("fromSlice")
	out := m.alloc(shape, dtype)
	for i, v := range data {
		out.data[i] = CastValue(v, dtype)
	}
	return New(out), nil
}

func (m *MockBackend) unary(op string, x *Tensor, dtype func(DataType) DataType, fn func(float64) float64) (*Tensor, error) {
	m.record(op)
	a, err := m.adapter(op, x)
	if err != nil {
		return nil, err
	}
	dt := dtype(a.dtype)
	out := m.alloc(a.shape, dt)
	derive(out, func() {
		for i, v := range a.data {
			out.data[i] = CastValue(fn(v), dt)
		}
	}, a)
	return New(out), nil
}

func sameType(dt DataType) DataType { return dt }
func boolType(DataType) DataType    { return Bool }

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Exp computes e^x.
func (m *MockBackend) Exp(x *Tensor) (*Tensor, error) { return m.unary("exp", x, FloatResult, math.Exp) }

// Log computes ln(x).
func (m *MockBackend) Log(x *Tensor) (*Tensor, error) { return m.unary("log", x, FloatResult, math.Log) }

// Negative computes -x.
func (m *MockBackend) Negative(x *Tensor) (*Tensor, error) {
	return m.unary("negative", x, sameType, func(v float64) float64 { return -v })
}

// LogicalNot computes !x.
func (m *MockBackend) LogicalNot(x *Tensor) (*Tensor, error) {
	return m.unary("logicalNot", x, boolType, func(v float64) float64 { return boolValue(v == 0) })
}

// Log1p computes ln(1+x).
func (m *MockBackend) Log1p(x *Tensor) (*Tensor, error) {
	return m.unary("log1p", x, FloatResult, math.Log1p)
}

// Sin computes sin(x).
func (m *MockBackend) Sin(x *Tensor) (*Tensor, error) { return m.unary("sin", x, FloatResult, math.Sin) }

// Cos computes cos(x).
func (m *MockBackend) Cos(x *Tensor) (*Tensor, error) { return m.unary("cos", x, FloatResult, math.Cos) }

// Sqrt computes sqrt(x).
func (m *MockBackend) Sqrt(x *Tensor) (*Tensor, error) {
	return m.unary("sqrt", x, FloatResult, math.Sqrt)
}

// Tanh computes tanh(x).
func (m *MockBackend) Tanh(x *Tensor) (*Tensor, error) {
	return m.unary("tanh", x, FloatResult, math.Tanh)
}

// Absolute computes |x|.
func (m *MockBackend) Absolute(x *Tensor) (*Tensor, error) {
	return m.unary("absolute", x, sameType, math.Abs)
}

// IsNaN flags NaN elements.
func (m *MockBackend) IsNaN(x *Tensor) (*Tensor, error) {
	return m.unary("isnan", x, boolType, func(v float64) float64 { return boolValue(math.IsNaN(v)) })
}

// MulScalar computes x * s.
func (m *MockBackend) MulScalar(x *Tensor, s float64) (*Tensor, error) {
	return m.unary("mulScalar", x, sameType, func(v float64) float64 { return v * s })
}

// binary applies fn with broadcasting over any number of operands.
func (m *MockBackend) binary(op string, fn func(vs []float64) float64, xs ...*Tensor) (*Tensor, error) {
	m.record(op)
	adapters := make([]*mockAdapter, len(xs))
	outShape := Shape{}
	for i, x := range xs {
		a, err := m.adapter(op, x)
		if err != nil {
			return nil, err
		}
		adapters[i] = a
		if outShape, _, err = BroadcastShapes(outShape, a.shape); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
		}
	}

	out := m.alloc(outShape, adapters[0].dtype)
	outStrides := outShape.ComputeStrides()
	strides := make([][]int, len(adapters))
	for i, a := range adapters {
		strides[i] = BroadcastStrides(a.shape, outShape)
	}
	vs := make([]float64, len(adapters))
	derive(out, func() {
		for i := range out.data {
			for k, a := range adapters {
				vs[k] = a.data[FlatIndex(i, outStrides, strides[k])]
			}
			out.data[i] = CastValue(fn(vs), out.dtype)
		}
	}, adapters...)
	return New(out), nil
}

// Clip limits x to [low, high].
func (m *MockBackend) Clip(x, low, high *Tensor) (*Tensor, error) {
	return m.binary("clip", func(vs []float64) float64 {
		return math.Min(math.Max(vs[0], vs[1]), vs[2])
	}, x, low, high)
}

// Minimum computes min(a, b).
func (m *MockBackend) Minimum(a, b *Tensor) (*Tensor, error) {
	return m.binary("minimum", func(vs []float64) float64 { return math.Min(vs[0], vs[1]) }, a, b)
}

// Maximum computes max(a, b).
func (m *MockBackend) Maximum(a, b *Tensor) (*Tensor, error) {
	return m.binary("maximum", func(vs []float64) float64 { return math.Max(vs[0], vs[1]) }, a, b)
}

// Power computes a^b.
func (m *MockBackend) Power(a, b *Tensor) (*Tensor, error) {
	return m.binary("power", func(vs []float64) float64 { return math.Pow(vs[0], vs[1]) }, a, b)
}

func (m *MockBackend) reduce(op string, x *Tensor, axes []int, dtype func(DataType) DataType, fn func([]float64) float64) (*Tensor, error) {
	m.record(op)
	a, err := m.adapter(op, x)
	if err != nil {
		return nil, err
	}
	_, shape, err := ReduceAxes(a.data, a.shape, axes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dt := dtype(a.dtype)
	out := m.alloc(shape, dt)
	derive(out, func() {
		groups, _, _ := ReduceAxes(a.data, a.shape, axes)
		for i, g := range groups {
			out.data[i] = CastValue(fn(g), dt)
		}
	}, a)
	return New(out), nil
}

// Amin reduces with min.
func (m *MockBackend) Amin(x *Tensor, axes []int) (*Tensor, error) {
	return m.reduce("amin", x, axes, sameType, func(g []float64) float64 {
		r := math.Inf(1)
		for _, v := range g {
			r = math.Min(r, v)
		}
		return r
	})
}

// Amax reduces with max.
func (m *MockBackend) Amax(x *Tensor, axes []int) (*Tensor, error) {
	return m.reduce("amax", x, axes, sameType, func(g []float64) float64 {
		r := math.Inf(-1)
		for _, v := range g {
			r = math.Max(r, v)
		}
		return r
	})
}

func sumOf(g []float64) float64 {
	s := 0.0
	for _, v := range g {
		s += v
	}
	return s
}

// Sum reduces with +.
func (m *MockBackend) Sum(x *Tensor, axes []int) (*Tensor, error) {
	return m.reduce("sum", x, axes, sameType, sumOf)
}

// Mean reduces with the arithmetic mean.
func (m *MockBackend) Mean(x *Tensor, axes []int) (*Tensor, error) {
	return m.reduce("mean", x, axes, FloatResult, func(g []float64) float64 {
		return sumOf(g) / float64(len(g))
	})
}

// Var reduces with the variance.
func (m *MockBackend) Var(x *Tensor, axes []int, bias bool) (*Tensor, error) {
	return m.reduce("var", x, axes, FloatResult, func(g []float64) float64 {
		mean := sumOf(g) / float64(len(g))
		ss := 0.0
		for _, v := range g {
			ss += (v - mean) * (v - mean)
		}
		n := float64(len(g))
		if !bias {
			n--
		}
		return ss / n
	})
}

// Norm returns the L2 norm.
func (m *MockBackend) Norm(x *Tensor) (float64, error) {
	m.record("norm")
	a, err := m.adapter("norm", x)
	if err != nil {
		return 0, err
	}
	a.force()
	ss := 0.0
	for _, v := range a.data {
		ss += v * v
	}
	return math.Sqrt(ss), nil
}

// Scalar reads the first element, evaluating deferred collectives.
func (m *MockBackend) Scalar(x *Tensor) (float64, error) {
	m.record("scalar")
	a, err := m.adapter("scalar", x)
	if err != nil {
		return 0, err
	}
	a.force()
	if len(a.data) == 0 {
		return 0, fmt.Errorf("scalar: tensor has no elements: %w", ErrInvalidArgument)
	}
	return a.data[0], nil
}

// AllReduce multiplies x by Replicas. In lazy mode the work is deferred.
func (m *MockBackend) AllReduce(x *Tensor, async bool) error {
	return m.AllReduceMultiple([]*Tensor{x}, async, false)
}

// AllReduceMultiple applies AllReduce to every tensor in one call.
func (m *MockBackend) AllReduceMultiple(xs []*Tensor, _, _ bool) error {
	m.record("allReduce")
	adapters := make([]*mockAdapter, len(xs))
	for i, x := range xs {
		a, err := m.adapter("allReduce", x)
		if err != nil {
			return err
		}
		adapters[i] = a
	}

	if !m.Lazy {
		for _, a := range adapters {
			m.scaleByReplicas(a)
		}
		return nil
	}
	m.mu.Lock()
	for _, a := range adapters {
		a.deferred = a
		m.pending = append(m.pending, a)
	}
	m.mu.Unlock()
	return nil
}

// SyncCollective evaluates deferred collectives.
func (m *MockBackend) SyncCollective() error {
	m.record("sync")
	m.materialize()
	return nil
}

func (m *MockBackend) scaleByReplicas(a *mockAdapter) {
	r := float64(max(m.Replicas, 1))
	for i := range a.data {
		a.data[i] = CastValue(a.data[i]*r, a.dtype)
	}
}

func (m *MockBackend) materialize() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.materialized += len(pending)
	m.mu.Unlock()

	for _, a := range pending {
		m.scaleByReplicas(a)
		a.deferred = nil
	}
}

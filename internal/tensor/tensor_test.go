package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func mustFromSlice(t *testing.T, b Backend, data []float64, shape Shape) *Tensor {
	t.Helper()
	x, err := FromSlice(b, data, shape, Float64)
	require.NoError(t, err)
	return x
}

func elements(t *testing.T, x *Tensor) []float64 {
	t.Helper()
	a, ok := x.Adapter().(*mockAdapter)
	require.True(t, ok, "expected a mock tensor")
	return append([]float64(nil), a.data...)
}

func resetRegistry(t *testing.T) {
	t.Helper()
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.factories = make(map[string]BackendFactory)
	registry.instances = make(map[string]Backend)
	registry.defaultName = ""
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.dtype.Size(), tt.dtype.String())
	}
}

func TestDataTypeString(t *testing.T) {
	assert.Equal(t, "float32", Float32.String())
	assert.Equal(t, "bool", Bool.String())
	assert.Equal(t, "unknown", DataType(42).String())
}

func TestCastValue(t *testing.T) {
	tests := []struct {
		v     float64
		dtype DataType
		want  float64
	}{
		{2.7, Int32, 2},
		{-2.7, Int64, -2},
		{255.9, Uint8, 255},
		{0.5, Bool, 1},
		{0, Bool, 0},
		{0.1, Float64, 0.1},
		{0.1, Float32, float64(float32(0.1))},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CastValue(tt.v, tt.dtype), "%v as %s", tt.v, tt.dtype)
	}
}

func TestFloatResult(t *testing.T) {
	assert.Equal(t, Float64, FloatResult(Float64))
	assert.Equal(t, Float32, FloatResult(Int64))
	assert.Equal(t, Float32, FloatResult(Bool))
}

// Shape Tests

func TestShape(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 0, Shape{3, 0}.NumElements())
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.NoError(t, Shape{0}.Validate())
	assert.Error(t, Shape{2, -1}.Validate())

	s := Shape{2, 3}
	c := s.Clone()
	c[0] = 9
	assert.Equal(t, Shape{2, 3}, s)
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{Shape{5}, Shape{2, 5}, Shape{2, 5}, true, false},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		got, bc, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.broadcast, bc, "%v vs %v", tt.a, tt.b)
	}
}

func TestBroadcastStrides(t *testing.T) {
	assert.Equal(t, []int{0, 1}, BroadcastStrides(Shape{3}, Shape{2, 3}))
	assert.Equal(t, []int{1, 0}, BroadcastStrides(Shape{2, 1}, Shape{2, 3}))
}

// Index Tests

func TestIndexData(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	shape := Shape{3, 4}

	tests := []struct {
		name    string
		indices []Index
		shape   Shape
		want    []float64
	}{
		{"row", []Index{At(1)}, Shape{4}, []float64{4, 5, 6, 7}},
		{"negative row", []Index{At(-1)}, Shape{4}, []float64{8, 9, 10, 11}},
		{"element", []Index{At(2), At(3)}, Shape{}, []float64{11}},
		{"column", []Index{Span, At(0)}, Shape{3}, []float64{0, 4, 8}},
		{"range", []Index{Range(0, 2), Range(1, 3)}, Shape{2, 2}, []float64{1, 2, 5, 6}},
		{"step", []Index{At(0), RangeFrom(0).Step(2)}, Shape{2}, []float64{0, 2}},
		{"negative end", []Index{Range(1, -1)}, Shape{1, 4}, []float64{4, 5, 6, 7}},
		{"empty range", []Index{Range(2, 2)}, Shape{0, 4}, []float64{}},
		{"none", nil, Shape{3, 4}, data},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotShape, err := IndexData(data, shape, tt.indices)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, gotShape)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexData_Errors(t *testing.T) {
	data := []float64{0, 1, 2, 3}
	shape := Shape{2, 2}

	for _, indices := range [][]Index{
		{At(2)},
		{At(-3)},
		{Range(0, 3)},
		{Range(0, 2).Step(0)},
		{At(0), At(0), At(0)},
	} {
		_, _, err := IndexData(data, shape, indices)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%v", indices)
	}
}

// Reduce Tests

func TestReduceAxes(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}

	groups, shape, err := ReduceAxes(data, Shape{2, 3}, []int{0})
	require.NoError(t, err)
	assert.Equal(t, Shape{3}, shape)
	assert.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, groups)

	groups, shape, err = ReduceAxes(data, Shape{2, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, Shape{}, shape)
	assert.Equal(t, [][]float64{data}, groups)

	_, _, err = ReduceAxes(data, Shape{2, 3}, []int{2})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// Registry Tests

func TestRegistry(t *testing.T) {
	resetRegistry(t)
	t.Cleanup(func() { resetRegistry(t) })

	_, err := Empty()
	assert.ErrorIs(t, err, ErrNoDefaultBackend)

	var built int
	RegisterBackend("mock", func() (Backend, error) {
		built++
		return NewMockBackend(), nil
	})
	RegisterBackend("stub", func() (Backend, error) {
		return NewMockBackendAs(Stub), nil
	})
	assert.Panics(t, func() {
		RegisterBackend("mock", func() (Backend, error) { return nil, nil })
	})

	e, err := Empty()
	require.NoError(t, err)
	assert.Equal(t, Shape{0}, e.Shape())
	assert.Equal(t, Float32, e.Type())
	assert.Equal(t, Mock, e.BackendType())

	_, err = Full(Shape{2}, 1, Float64)
	require.NoError(t, err)
	assert.Equal(t, 1, built, "backends are constructed once")

	require.NoError(t, SetDefaultBackend("stub"))
	e, err = Empty()
	require.NoError(t, err)
	assert.Equal(t, Stub, e.BackendType())

	assert.ErrorIs(t, SetDefaultBackend("tpu"), ErrInvalidArgument)
}

// Tensor Tests

func TestTensor_Accessors(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})

	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, Float64, x.Type())
	assert.Equal(t, 6, x.NumElements())
	assert.Equal(t, Mock, x.BackendType())
	assert.Same(t, m, x.Backend())
	assert.Equal(t, x.Adapter().BackendType(), x.BackendType())
	assert.Equal(t, "Tensor[float64][2 3] on Mock", x.String())
}

func TestTensor_CopyIsolation(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{1, 2, 3}, Shape{3})

	y := x.Copy()
	y.Adapter().(*mockAdapter).data[0] = 100

	assert.Equal(t, []float64{1, 2, 3}, elements(t, x))
	assert.Equal(t, []float64{100, 2, 3}, elements(t, y))
	assert.NotSame(t, x.Adapter(), y.Adapter())
}

func TestTensor_Assign(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{1}, Shape{1})
	y := mustFromSlice(t, m, []float64{2}, Shape{1})

	impl := y.Adapter()
	x.Assign(y)
	assert.Same(t, impl, x.Adapter())
	assert.Nil(t, y.Adapter())
	assert.Equal(t, "Tensor[empty]", y.String())
}

func TestTensor_AsType(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{-1.5, 0, 2.5}, Shape{3})

	b, err := x.AsType(Bool)
	require.NoError(t, err)
	assert.Equal(t, Bool, b.Type())
	assert.Equal(t, []float64{1, 0, 1}, elements(t, b))
	assert.Equal(t, Float64, x.Type(), "astype returns a new tensor")
}

func TestTensor_Index(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{1, 2, 3, 4}, Shape{2, 2})

	col, err := x.Index(Span, At(1))
	require.NoError(t, err)
	assert.Equal(t, Shape{2}, col.Shape())
	assert.Equal(t, []float64{2, 4}, elements(t, col))

	_, err = x.Index(At(5))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFromSlice_SizeMismatch(t *testing.T) {
	_, err := FromSlice(NewMockBackend(), []float64{1, 2}, Shape{3}, Float32)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = FullOn(NewMockBackend(), Shape{-1}, 0, Float32)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNew_NilAdapter(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

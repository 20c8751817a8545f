package tensor

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnaryOps(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{0, 1, 4}, Shape{3})

	tests := []struct {
		name string
		op   func(*Tensor) (*Tensor, error)
		want []float64
	}{
		{"exp", Exp, []float64{1, math.E, math.Exp(4)}},
		{"negative", Negative, []float64{0, -1, -4}},
		{"logicalNot", LogicalNot, []float64{1, 0, 0}},
		{"log1p", Log1p, []float64{0, math.Log(2), math.Log(5)}},
		{"sin", Sin, []float64{0, math.Sin(1), math.Sin(4)}},
		{"cos", Cos, []float64{1, math.Cos(1), math.Cos(4)}},
		{"sqrt", Sqrt, []float64{0, 1, 2}},
		{"tanh", Tanh, []float64{0, math.Tanh(1), math.Tanh(4)}},
		{"absolute", Absolute, []float64{0, 1, 4}},
		{"isnan", IsNaN, []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(x)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, elements(t, got), 1e-12)
			assert.Equal(t, 1, m.Calls(tt.name))
		})
	}
}

func TestUnaryOps_ResultType(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{1, 2}, Shape{2})
	i, err := x.AsType(Int32)
	require.NoError(t, err)

	e, err := Exp(i)
	require.NoError(t, err)
	assert.Equal(t, Float32, e.Type())

	n, err := Negative(i)
	require.NoError(t, err)
	assert.Equal(t, Int32, n.Type())

	b, err := IsNaN(x)
	require.NoError(t, err)
	assert.Equal(t, Bool, b.Type())
}

func TestLog_NaN(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{-1, 1}, Shape{2})

	l, err := Log(x)
	require.NoError(t, err)
	nan, err := IsNaN(l)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, elements(t, nan))
}

// All four bound combinations must produce the same result as the
// tensor/tensor path.
func TestClip_BoundCombinations(t *testing.T) {
	shapes := []Shape{{}, {5}, {2, 3}, {2, 3, 2}}

	for _, shape := range shapes {
		t.Run(fmt.Sprint(shape), func(t *testing.T) {
			m := NewMockBackend()
			n := shape.NumElements()
			data := make([]float64, n)
			want := make([]float64, n)
			for i := range data {
				data[i] = 0.75 * float64(i-n/2)
				want[i] = math.Min(math.Max(data[i], -1), 1)
			}
			x := mustFromSlice(t, m, data, shape)
			lo, err := FullOn(m, shape, -1, Float64)
			require.NoError(t, err)
			hi, err := FullOn(m, shape, 1, Float64)
			require.NoError(t, err)

			for _, bounds := range [][2]Bound{
				{TensorBound(lo), TensorBound(hi)},
				{TensorBound(lo), ScalarBound(1)},
				{ScalarBound(-1), TensorBound(hi)},
				{ScalarBound(-1), ScalarBound(1)},
			} {
				got, err := Clip(x, bounds[0], bounds[1])
				require.NoError(t, err)
				assert.Equal(t, want, elements(t, got))
				assert.Equal(t, shape, got.Shape())
			}
			assert.Equal(t, 4, m.Calls("clip"), "every combination reaches the backend clip")

			got, err := ClipScalars(x, -1, 1)
			require.NoError(t, err)
			assert.Equal(t, want, elements(t, got))
		})
	}
}

func TestClip_BackendMismatch(t *testing.T) {
	x := mustFromSlice(t, NewMockBackend(), []float64{1}, Shape{1})
	lo := mustFromSlice(t, NewMockBackendAs(Stub), []float64{0}, Shape{1})

	_, err := Clip(x, TensorBound(lo), ScalarBound(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, strings.HasPrefix(err.Error(), "clip"), err.Error())
}

func TestMinimumMaximum(t *testing.T) {
	m := NewMockBackend()
	a := mustFromSlice(t, m, []float64{1, 5, 3}, Shape{3})
	b := mustFromSlice(t, m, []float64{4, 2, 3}, Shape{3})

	lo, err := Minimum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, elements(t, lo))

	hi, err := Maximum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 3}, elements(t, hi))

	tests := []struct {
		name string
		op   func() (*Tensor, error)
		want []float64
	}{
		{"minimumScalar", func() (*Tensor, error) { return MinimumScalar(a, 2) }, []float64{1, 2, 2}},
		{"scalarMinimum", func() (*Tensor, error) { return ScalarMinimum(2, a) }, []float64{1, 2, 2}},
		{"maximumScalar", func() (*Tensor, error) { return MaximumScalar(a, 2) }, []float64{2, 5, 3}},
		{"scalarMaximum", func() (*Tensor, error) { return ScalarMaximum(2, a) }, []float64{2, 5, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			require.NoError(t, err)
			assert.Equal(t, tt.want, elements(t, got))
		})
	}
}

func TestMinimum_Broadcast(t *testing.T) {
	m := NewMockBackend()
	a := mustFromSlice(t, m, []float64{1, 5, 3, 7}, Shape{2, 2})
	b := mustFromSlice(t, m, []float64{4, 2}, Shape{2})

	got, err := Minimum(a, b)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, got.Shape())
	assert.Equal(t, []float64{1, 2, 3, 2}, elements(t, got))

	c := mustFromSlice(t, m, []float64{1, 2, 3}, Shape{3})
	_, err = Minimum(a, c)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMinimum_BackendMismatch(t *testing.T) {
	a := mustFromSlice(t, NewMockBackend(), []float64{1}, Shape{1})
	b := mustFromSlice(t, NewMockBackendAs(Stub), []float64{2}, Shape{1})

	_, err := Minimum(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, strings.HasPrefix(err.Error(), "minimum called with tensors of different backends"), err.Error())

	var mismatch *BackendMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "minimum", mismatch.Op)
	assert.Equal(t, []BackendType{Mock, Stub}, mismatch.Types)

	_, err = Power(a, b)
	assert.True(t, strings.HasPrefix(err.Error(), "power"), err.Error())
	_, err = Maximum(b, a)
	assert.True(t, strings.HasPrefix(err.Error(), "maximum"), err.Error())
}

func TestCheckBackends_Nil(t *testing.T) {
	a := mustFromSlice(t, NewMockBackend(), []float64{1}, Shape{1})

	err := CheckBackends("minimum", a, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.NoError(t, CheckBackends("minimum", a, a.Copy()))
}

func TestPower(t *testing.T) {
	m := NewMockBackend()
	a := mustFromSlice(t, m, []float64{2, 3, 4}, Shape{3})
	b := mustFromSlice(t, m, []float64{2}, Shape{1})

	got, err := Power(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 9, 16}, elements(t, got))
}

func TestMulScalar(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{1, -2}, Shape{2})

	got, err := MulScalar(x, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -1}, elements(t, got))
	assert.Equal(t, []float64{1, -2}, elements(t, x))
}

func TestReductions(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})

	tests := []struct {
		name  string
		op    func() (*Tensor, error)
		shape Shape
		want  []float64
	}{
		{"sum all", func() (*Tensor, error) { return Sum(x) }, Shape{}, []float64{21}},
		{"sum rows", func() (*Tensor, error) { return Sum(x, 1) }, Shape{2}, []float64{6, 15}},
		{"mean cols", func() (*Tensor, error) { return Mean(x, 0) }, Shape{3}, []float64{2.5, 3.5, 4.5}},
		{"amin", func() (*Tensor, error) { return Amin(x, -1) }, Shape{2}, []float64{1, 4}},
		{"amax", func() (*Tensor, error) { return Amax(x) }, Shape{}, []float64{6}},
		{"var population", func() (*Tensor, error) { return Var(x, []int{1}, true) }, Shape{2}, []float64{2.0 / 3, 2.0 / 3}},
		{"var sample", func() (*Tensor, error) { return Var(x, []int{1}, false) }, Shape{2}, []float64{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			require.NoError(t, err)
			assert.Equal(t, tt.shape, got.Shape())
			assert.InDeltaSlice(t, tt.want, elements(t, got), 1e-12)
		})
	}

	_, err := Sum(x, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNorm(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{3, 4}, Shape{2})

	n, err := Norm(x)
	require.NoError(t, err)
	assert.Equal(t, 5.0, n)
}

func TestScalar(t *testing.T) {
	m := NewMockBackend()
	x := mustFromSlice(t, m, []float64{7, 8}, Shape{2})

	v, err := x.Scalar()
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	e, err := FullOn(m, Shape{0}, 0, Float32)
	require.NoError(t, err)
	_, err = e.Scalar()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMock_LazyAllReduce(t *testing.T) {
	m := NewMockBackend()
	m.Lazy = true
	m.Replicas = 3

	x := mustFromSlice(t, m, []float64{2}, Shape{1})
	require.NoError(t, m.AllReduce(x, false))
	s, err := Sum(x)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Pending())
	assert.Equal(t, 0, m.Materialized())

	v, err := s.Scalar()
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, 1, m.Materialized())
}

// Every way of reading a value derived from a deferred collective must see
// the reduced data.
func TestMock_LazyResultReachesEveryOp(t *testing.T) {
	tests := []struct {
		name string
		read func(t *testing.T, x *Tensor) float64
		want float64
	}{
		{"minimumScalar", func(t *testing.T, x *Tensor) float64 {
			y, err := MinimumScalar(x, 100)
			require.NoError(t, err)
			v, err := y.Scalar()
			require.NoError(t, err)
			return v
		}, 6},
		{"clip", func(t *testing.T, x *Tensor) float64 {
			y, err := ClipScalars(x, 0, 5)
			require.NoError(t, err)
			v, err := y.Scalar()
			require.NoError(t, err)
			return v
		}, 5},
		{"power", func(t *testing.T, x *Tensor) float64 {
			two, err := FullOn(x.Backend(), Shape{}, 2, Float64)
			require.NoError(t, err)
			y, err := Power(x, two)
			require.NoError(t, err)
			s, err := Sum(y)
			require.NoError(t, err)
			v, err := s.Scalar()
			require.NoError(t, err)
			return v
		}, 72},
		{"norm", func(t *testing.T, x *Tensor) float64 {
			v, err := Norm(x)
			require.NoError(t, err)
			return v
		}, math.Sqrt(72)},
		{"astype", func(t *testing.T, x *Tensor) float64 {
			y, err := x.AsType(Int32)
			require.NoError(t, err)
			return elements(t, y)[1]
		}, 6},
		{"index", func(t *testing.T, x *Tensor) float64 {
			y, err := x.Index(At(1))
			require.NoError(t, err)
			return elements(t, y)[0]
		}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockBackend()
			m.Lazy = true
			m.Replicas = 3
			x := mustFromSlice(t, m, []float64{2, 2}, Shape{2})
			require.NoError(t, m.AllReduce(x, false))

			assert.InDelta(t, tt.want, tt.read(t, x), 1e-12)
			assert.Equal(t, 0, m.Pending())
			assert.Equal(t, 1, m.Materialized())
		})
	}
}

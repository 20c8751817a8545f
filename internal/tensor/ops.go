package tensor

import "fmt"

// Unary operators.

// Exp computes e^x element-wise.
func Exp(x *Tensor) (*Tensor, error) {
	return x.Backend().Exp(x)
}

// Log computes the natural logarithm element-wise.
func Log(x *Tensor) (*Tensor, error) {
	return x.Backend().Log(x)
}

// Negative computes -x element-wise.
func Negative(x *Tensor) (*Tensor, error) {
	return x.Backend().Negative(x)
}

// LogicalNot computes !x element-wise, producing a Bool tensor.
func LogicalNot(x *Tensor) (*Tensor, error) {
	return x.Backend().LogicalNot(x)
}

// Log1p computes log(1 + x) element-wise.
func Log1p(x *Tensor) (*Tensor, error) {
	return x.Backend().Log1p(x)
}

// Sin computes the sine element-wise.
func Sin(x *Tensor) (*Tensor, error) {
	return x.Backend().Sin(x)
}

// Cos computes the cosine element-wise.
func Cos(x *Tensor) (*Tensor, error) {
	return x.Backend().Cos(x)
}

// Sqrt computes the square root element-wise.
func Sqrt(x *Tensor) (*Tensor, error) {
	return x.Backend().Sqrt(x)
}

// Tanh computes the hyperbolic tangent element-wise.
func Tanh(x *Tensor) (*Tensor, error) {
	return x.Backend().Tanh(x)
}

// Absolute computes |x| element-wise.
func Absolute(x *Tensor) (*Tensor, error) {
	return x.Backend().Absolute(x)
}

// IsNaN reports NaN elements as a Bool tensor.
func IsNaN(x *Tensor) (*Tensor, error) {
	return x.Backend().IsNaN(x)
}

// Bound is a clip limit: either a tensor or a scalar.
type Bound struct {
	t      *Tensor
	scalar float64
}

// TensorBound uses t as an element-wise limit.
func TensorBound(t *Tensor) Bound {
	return Bound{t: t}
}

// ScalarBound uses v for every element.
func ScalarBound(v float64) Bound {
	return Bound{scalar: v}
}

// tensorLike returns the bound as a tensor shaped like x on x's backend.
func (bd Bound) tensorLike(x *Tensor) (*Tensor, error) {
	if bd.t != nil {
		return bd.t, nil
	}
	return FullOn(x.Backend(), x.Shape(), bd.scalar, x.Type())
}

// Clip limits x to [low, high] element-wise. Scalar bounds are broadcast to
// x's shape before the tensor/tensor path runs.
func Clip(x *Tensor, low, high Bound) (*Tensor, error) {
	lo, err := low.tensorLike(x)
	if err != nil {
		return nil, fmt.Errorf("clip: %w", err)
	}
	hi, err := high.tensorLike(x)
	if err != nil {
		return nil, fmt.Errorf("clip: %w", err)
	}
	if err := CheckBackends("clip", x, lo, hi); err != nil {
		return nil, err
	}
	return x.Backend().Clip(x, lo, hi)
}

// ClipScalars limits x to [low, high] element-wise.
func ClipScalars(x *Tensor, low, high float64) (*Tensor, error) {
	return Clip(x, ScalarBound(low), ScalarBound(high))
}

// Binary operators.

// Minimum computes the element-wise minimum of a and b.
func Minimum(a, b *Tensor) (*Tensor, error) {
	if err := CheckBackends("minimum", a, b); err != nil {
		return nil, err
	}
	return a.Backend().Minimum(a, b)
}

// Maximum computes the element-wise maximum of a and b.
func Maximum(a, b *Tensor) (*Tensor, error) {
	if err := CheckBackends("maximum", a, b); err != nil {
		return nil, err
	}
	return a.Backend().Maximum(a, b)
}

// MinimumScalar computes min(a, s) element-wise.
func MinimumScalar(a *Tensor, s float64) (*Tensor, error) {
	st, err := ScalarBound(s).tensorLike(a)
	if err != nil {
		return nil, err
	}
	return Minimum(a, st)
}

// ScalarMinimum computes min(s, b) element-wise.
func ScalarMinimum(s float64, b *Tensor) (*Tensor, error) {
	st, err := ScalarBound(s).tensorLike(b)
	if err != nil {
		return nil, err
	}
	return Minimum(st, b)
}

// MaximumScalar computes max(a, s) element-wise.
func MaximumScalar(a *Tensor, s float64) (*Tensor, error) {
	st, err := ScalarBound(s).tensorLike(a)
	if err != nil {
		return nil, err
	}
	return Maximum(a, st)
}

// ScalarMaximum computes max(s, b) element-wise.
func ScalarMaximum(s float64, b *Tensor) (*Tensor, error) {
	st, err := ScalarBound(s).tensorLike(b)
	if err != nil {
		return nil, err
	}
	return Maximum(st, b)
}

// Power computes a^b element-wise.
func Power(a, b *Tensor) (*Tensor, error) {
	if err := CheckBackends("power", a, b); err != nil {
		return nil, err
	}
	return a.Backend().Power(a, b)
}

// MulScalar computes x * s element-wise.
func MulScalar(x *Tensor, s float64) (*Tensor, error) {
	return x.Backend().MulScalar(x, s)
}

// Reductions. An empty axes list reduces over every dimension.

// Amin returns the minimum along axes.
func Amin(x *Tensor, axes ...int) (*Tensor, error) {
	return x.Backend().Amin(x, axes)
}

// Amax returns the maximum along axes.
func Amax(x *Tensor, axes ...int) (*Tensor, error) {
	return x.Backend().Amax(x, axes)
}

// Sum returns the sum along axes.
func Sum(x *Tensor, axes ...int) (*Tensor, error) {
	return x.Backend().Sum(x, axes)
}

// Mean returns the arithmetic mean along axes.
func Mean(x *Tensor, axes ...int) (*Tensor, error) {
	return x.Backend().Mean(x, axes)
}

// Var returns the variance along axes. With bias set the population
// variance is computed, otherwise the sample variance.
func Var(x *Tensor, axes []int, bias bool) (*Tensor, error) {
	return x.Backend().Var(x, axes, bias)
}

// Norm returns the L2 norm of all elements.
func Norm(x *Tensor) (float64, error) {
	return x.Backend().Norm(x)
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/born-collective/internal/tensor"
)

// Element-wise operations

// Exp computes e^x element-wise.
func Exp(x *Tensor) (*Tensor, error) { return tensor.Exp(x) }

// Log computes the natural logarithm element-wise.
func Log(x *Tensor) (*Tensor, error) { return tensor.Log(x) }

// Negative computes -x element-wise.
func Negative(x *Tensor) (*Tensor, error) { return tensor.Negative(x) }

// LogicalNot computes !x element-wise.
func LogicalNot(x *Tensor) (*Tensor, error) { return tensor.LogicalNot(x) }

// Log1p computes log(1 + x) element-wise.
func Log1p(x *Tensor) (*Tensor, error) { return tensor.Log1p(x) }

// Sin computes the sine element-wise.
func Sin(x *Tensor) (*Tensor, error) { return tensor.Sin(x) }

// Cos computes the cosine element-wise.
func Cos(x *Tensor) (*Tensor, error) { return tensor.Cos(x) }

// Sqrt computes the square root element-wise.
func Sqrt(x *Tensor) (*Tensor, error) { return tensor.Sqrt(x) }

// Tanh computes the hyperbolic tangent element-wise.
func Tanh(x *Tensor) (*Tensor, error) { return tensor.Tanh(x) }

// Absolute computes |x| element-wise.
func Absolute(x *Tensor) (*Tensor, error) { return tensor.Absolute(x) }

// IsNaN reports NaN elements as a Bool tensor.
func IsNaN(x *Tensor) (*Tensor, error) { return tensor.IsNaN(x) }

// MulScalar computes x * s element-wise.
func MulScalar(x *Tensor, s float64) (*Tensor, error) { return tensor.MulScalar(x, s) }

// Clipping

// Bound is a clip limit: either a tensor or a scalar.
type Bound = tensor.Bound

// TensorBound uses t as an element-wise limit.
func TensorBound(t *Tensor) Bound { return tensor.TensorBound(t) }

// ScalarBound uses v for every element.
func ScalarBound(v float64) Bound { return tensor.ScalarBound(v) }

// Clip limits x to [low, high] element-wise.
//
// Example:
//
//	y, _ := tensor.Clip(x, tensor.ScalarBound(0), tensor.TensorBound(limit))
func Clip(x *Tensor, low, high Bound) (*Tensor, error) { return tensor.Clip(x, low, high) }

// ClipScalars limits x to [low, high] element-wise.
func ClipScalars(x *Tensor, low, high float64) (*Tensor, error) {
	return tensor.ClipScalars(x, low, high)
}

// Binary operations

// Minimum computes the element-wise minimum of a and b.
func Minimum(a, b *Tensor) (*Tensor, error) { return tensor.Minimum(a, b) }

// Maximum computes the element-wise maximum of a and b.
func Maximum(a, b *Tensor) (*Tensor, error) { return tensor.Maximum(a, b) }

// MinimumScalar computes min(a, s) element-wise.
func MinimumScalar(a *Tensor, s float64) (*Tensor, error) { return tensor.MinimumScalar(a, s) }

// ScalarMinimum computes min(s, b) element-wise.
func ScalarMinimum(s float64, b *Tensor) (*Tensor, error) { return tensor.ScalarMinimum(s, b) }

// MaximumScalar computes max(a, s) element-wise.
func MaximumScalar(a *Tensor, s float64) (*Tensor, error) { return tensor.MaximumScalar(a, s) }

// ScalarMaximum computes max(s, b) element-wise.
func ScalarMaximum(s float64, b *Tensor) (*Tensor, error) { return tensor.ScalarMaximum(s, b) }

// Power computes a^b element-wise.
func Power(a, b *Tensor) (*Tensor, error) { return tensor.Power(a, b) }

// Reductions. No axes reduce over every dimension.

// Amin returns the minimum along axes.
func Amin(x *Tensor, axes ...int) (*Tensor, error) { return tensor.Amin(x, axes...) }

// Amax returns the maximum along axes.
func Amax(x *Tensor, axes ...int) (*Tensor, error) { return tensor.Amax(x, axes...) }

// Sum returns the sum along axes.
func Sum(x *Tensor, axes ...int) (*Tensor, error) { return tensor.Sum(x, axes...) }

// Mean returns the arithmetic mean along axes.
func Mean(x *Tensor, axes ...int) (*Tensor, error) { return tensor.Mean(x, axes...) }

// Var returns the variance along axes; bias selects the population variance.
func Var(x *Tensor, axes []int, bias bool) (*Tensor, error) { return tensor.Var(x, axes, bias) }

// Norm returns the L2 norm of all elements.
func Norm(x *Tensor) (float64, error) { return tensor.Norm(x) }

package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/born-collective/internal/parallel"
	"github.com/born-ml/born-collective/internal/tensor"
)

// reduce folds the groups produced by tensor.ReduceAxes with fn.
func (cpu *CPUBackend) reduce(op string, x *tensor.Tensor, axes []int, dtype func(tensor.DataType) tensor.DataType,
	fn func([]float64) float64,
) (*tensor.Tensor, error) {
	a, err := cpu.operand(op, x)
	if err != nil {
		return nil, err
	}
	groups, shape, err := tensor.ReduceAxes(a.data, a.shape, axes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dt := dtype(a.dtype)
	out := cpu.alloc(shape, dt)
	parallel.For(len(groups), func(i int) {
		out.data[i] = tensor.CastValue(fn(groups[i]), dt)
	}, cpu.par)
	return tensor.New(out), nil
}

func sum(g []float64) float64 {
	s := 0.0
	for _, v := range g {
		s += v
	}
	return s
}

// Amin returns the minimum along axes.
func (cpu *CPUBackend) Amin(x *tensor.Tensor, axes []int) (*tensor.Tensor, error) {
	return cpu.reduce("amin", x, axes, sameType, func(g []float64) float64 {
		r := math.Inf(1)
		for _, v := range g {
			r = math.Min(r, v)
		}
		return r
	})
}

// Amax returns the maximum along axes.
func (cpu *CPUBackend) Amax(x *tensor.Tensor, axes []int) (*tensor.Tensor, error) {
	return cpu.reduce("amax", x, axes, sameType, func(g []float64) float64 {
		r := math.Inf(-1)
		for _, v := range g {
			r = math.Max(r, v)
		}
		return r
	})
}

// Sum returns the sum along axes.
func (cpu *CPUBackend) Sum(x *tensor.Tensor, axes []int) (*tensor.Tensor, error) {
	return cpu.reduce("sum", x, axes, sameType, sum)
}

// Mean returns the arithmetic mean along axes.
func (cpu *CPUBackend) Mean(x *tensor.Tensor, axes []int) (*tensor.Tensor, error) {
	return cpu.reduce("mean", x, axes, tensor.FloatResult, func(g []float64) float64 {
		return sum(g) / float64(len(g))
	})
}

// Var returns the variance along axes. bias selects the population variance
// (divide by N) over the sample variance (divide by N-1).
func (cpu *CPUBackend) Var(x *tensor.Tensor, axes []int, bias bool) (*tensor.Tensor, error) {
	return cpu.reduce("var", x, axes, tensor.FloatResult, func(g []float64) float64 {
		mean := sum(g) / float64(len(g))
		ss := 0.0
		for _, v := range g {
			d := v - mean
			ss += d * d
		}
		n := float64(len(g))
		if !bias {
			n--
		}
		return ss / n
	})
}

// Norm returns the L2 norm over every element.
func (cpu *CPUBackend) Norm(x *tensor.Tensor) (float64, error) {
	a, err := cpu.operand("norm", x)
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for _, v := range a.data {
		ss += v * v
	}
	return math.Sqrt(ss), nil
}

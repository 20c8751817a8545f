package tensor

import "fmt"

// ReduceAxes groups the elements of a row-major buffer by output position
// when the given axes are reduced away. An empty axes list reduces every
// dimension to a scalar. Negative axes count from the last dimension.
func ReduceAxes(data []float64, shape Shape, axes []int) ([][]float64, Shape, error) {
	reduced := make([]bool, len(shape))
	if len(axes) == 0 {
		for i := range reduced {
			reduced[i] = true
		}
	}
	for _, ax := range axes {
		a := ax
		if a < 0 {
			a += len(shape)
		}
		if a < 0 || a >= len(shape) {
			return nil, nil, fmt.Errorf("axis %d out of range for tensor of rank %d: %w", ax, len(shape), ErrInvalidArgument)
		}
		if reduced[a] {
			return nil, nil, fmt.Errorf("duplicate axis %d: %w", ax, ErrInvalidArgument)
		}
		reduced[a] = true
	}

	outShape := Shape{}
	for i, d := range shape {
		if !reduced[i] {
			outShape = append(outShape, d)
		}
	}

	groups := make([][]float64, outShape.NumElements())
	strides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	for flat, v := range data {
		rem, outIdx, k := flat, 0, 0
		for d := range shape {
			coord := rem / strides[d]
			rem %= strides[d]
			if !reduced[d] {
				outIdx += coord * outStrides[k]
				k++
			}
		}
		groups[outIdx] = append(groups[outIdx], v)
	}

	return groups, outShape, nil
}

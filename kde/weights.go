package kde

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Weights selects how samples contribute to the estimate: either uniformly
// or through an explicit per-sample vector. The zero value is Uniform.
type Weights struct {
	values   []float64
	explicit bool
}

// Uniform weights every sample equally. Kernels are summed without dividing
// by the sample count; the final rescale to unit area makes the two
// conventions identical.
func Uniform() Weights {
	return Weights{}
}

// Weighted uses w as per-sample weights, aligned by index with the data.
// The vector is copied and later divided by its own sum.
// An empty w means Uniform.
func Weighted(w []float64) Weights {
	if len(w) == 0 {
		return Uniform()
	}
	return Weights{
		values:   append([]float64(nil), w...),
		explicit: true,
	}
}

// IsUniform reports whether no explicit weight vector was given.
func (w Weights) IsUniform() bool {
	return !w.explicit
}

// Len returns the length of the explicit vector, or 0 for Uniform.
func (w Weights) Len() int {
	return len(w.values)
}

// resolve validates the weights against n samples and returns them
// normalized to sum to 1. Uniform resolves to nil.
func (w Weights) resolve(n int) ([]float64, error) {
	if !w.explicit {
		return nil, nil
	}
	if len(w.values) != n {
		return nil, fmt.Errorf("%w: %d weights for %d samples", ErrWeightsLength, len(w.values), n)
	}

	for i, v := range w.values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: weight[%d] = %v", ErrDegenerateWeights, i, v)
		}
	}

	sum := floats.Sum(w.values)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: sum = %v", ErrDegenerateWeights, sum)
	}

	out := append([]float64(nil), w.values...)
	floats.Scale(1/sum, out)
	return out, nil
}

package common

import (
	"fmt"
	"sort"
)

// LinearInterpolator is a monotone piecewise-linear map built from parallel
// x/y samples. Queries clamp at the boundaries instead of extrapolating.
type LinearInterpolator struct {
	xs []float64
	ys []float64
}

// NewLinearInterpolator creates an interpolator from parallel x and y
// arrays. The pairs are sorted by x internally; the inputs are not modified.
func NewLinearInterpolator(x, y []float64) (*LinearInterpolator, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x and y must have the same length, got %d and %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("x and y must be non-empty")
	}

	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return x[order[i]] < x[order[j]]
	})

	xs := make([]float64, len(x))
	ys := make([]float64, len(y))
	for i, idx := range order {
		xs[i] = x[idx]
		ys[i] = y[idx]
	}

	return &LinearInterpolator{xs: xs, ys: ys}, nil
}

// Interpolate evaluates the map at x, clamping outside the sample range.
func (li *LinearInterpolator) Interpolate(x float64) float64 {
	if len(li.xs) == 1 {
		return li.ys[0]
	}

	if x <= li.xs[0] {
		return li.ys[0]
	}
	if x >= li.xs[len(li.xs)-1] {
		return li.ys[len(li.ys)-1]
	}

	// Lower-bound search for the bracketing pair
	idx := sort.SearchFloat64s(li.xs, x)
	if idx == 0 {
		return li.ys[0]
	}

	x0, x1 := li.xs[idx-1], li.xs[idx]
	y0, y1 := li.ys[idx-1], li.ys[idx]

	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

// InterpolateAll evaluates the map at each point.
func (li *LinearInterpolator) InterpolateAll(xs []float64) []float64 {
	result := make([]float64, len(xs))
	for i, x := range xs {
		result[i] = li.Interpolate(x)
	}
	return result
}

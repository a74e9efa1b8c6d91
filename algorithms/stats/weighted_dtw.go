package stats

import (
	"math"
)

// Direction is a step pattern entry for weighted DTW.
type Direction struct {
	RowStep int `json:"row_step"`
	ColStep int `json:"col_step"`
}

// WeightedDynamicTimeWarping generalizes DTW to arbitrary step patterns with
// per-direction cost multipliers.
type WeightedDynamicTimeWarping struct {
	weights    []float64
	directions []Direction
	distanceFn DistanceFunction
}

// NewWeightedDynamicTimeWarping creates a weighted DTW with the standard
// three-direction step set and unit weights.
func NewWeightedDynamicTimeWarping() *WeightedDynamicTimeWarping {
	return NewWeightedDynamicTimeWarpingWithParams(
		[]float64{1.0, 1.0, 1.0},
		[]Direction{{1, 0}, {1, 1}, {0, 1}},
		EuclideanDistanceFunc,
	)
}

// NewWeightedDynamicTimeWarpingWithParams creates a weighted DTW with custom
// step directions, parallel weights, and a distance function.
func NewWeightedDynamicTimeWarpingWithParams(weights []float64, directions []Direction, fn DistanceFunction) *WeightedDynamicTimeWarping {
	if fn == nil {
		fn = EuclideanDistanceFunc
	}
	return &WeightedDynamicTimeWarping{
		weights:    weights,
		directions: directions,
		distanceFn: fn,
	}
}

// Compute aligns X against Y under the configured step pattern. Empty input
// yields distance 0 and an empty path.
func (w *WeightedDynamicTimeWarping) Compute(x, y [][]float64, returnPath, returnCostMatrix bool) DTWResult {
	if len(x) == 0 || len(y) == 0 {
		return DTWResult{}
	}

	m := len(x)
	n := len(y)

	distances := make([][]float64, m)
	for i := range x {
		distances[i] = make([]float64, n)
		for j := range y {
			distances[i][j] = w.distanceFn(x[i], y[j])
		}
	}

	costMatrix, path := w.forwardAndBackward(distances)

	result := DTWResult{
		Distance: costMatrix[m-1][n-1],
	}
	if returnPath {
		result.Path = path
	}
	if returnCostMatrix {
		result.CostMatrix = costMatrix
	}

	return result
}

// forwardAndBackward fills the padded cost grid storing the chosen direction
// per cell, then unrolls the path from the stored choices.
func (w *WeightedDynamicTimeWarping) forwardAndBackward(distances [][]float64) ([][]float64, []PathStep) {
	m := len(distances)
	n := len(distances[0])

	padded := make([][]float64, m+1)
	for i := range padded {
		padded[i] = make([]float64, n+1)
		for j := range padded[i] {
			padded[i][j] = math.Inf(1)
		}
	}
	padded[0][0] = 0

	chosen := make([][]int, m)
	for i := range chosen {
		chosen[i] = make([]int, n)
		for j := range chosen[i] {
			chosen[i][j] = -1
		}
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			minCost := math.Inf(1)
			bestDirection := -1

			for d, dir := range w.directions {
				prevI := i - dir.RowStep
				prevJ := j - dir.ColStep
				if prevI < 0 || prevJ < 0 {
					continue
				}

				cost := padded[prevI][prevJ] + distances[i-1][j-1]*w.weights[d]
				if cost < minCost {
					minCost = cost
					bestDirection = d
				}
			}

			padded[i][j] = minCost
			chosen[i-1][j-1] = bestDirection
		}
	}

	i := m - 1
	j := n - 1
	path := []PathStep{{Row: i, Col: j}}

	for i > 0 || j > 0 {
		d := chosen[i][j]
		if d < 0 || d >= len(w.directions) {
			break
		}
		i -= w.directions[d].RowStep
		j -= w.directions[d].ColStep
		path = append(path, PathStep{Row: i, Col: j})
	}
	reversePath(path)

	trimmed := make([][]float64, m)
	for i := range trimmed {
		trimmed[i] = padded[i+1][1:]
	}

	return trimmed, path
}

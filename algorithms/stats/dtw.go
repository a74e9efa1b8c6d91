package stats

import (
	"math"
)

// PathStep is one cell coordinate on a warping path.
type PathStep struct {
	Row int `json:"row"` // index into the first sequence
	Col int `json:"col"` // index into the second sequence
}

// DTWResult contains DTW alignment results
type DTWResult struct {
	Distance   float64     `json:"distance"`              // Total accumulated cost
	Path       []PathStep  `json:"path,omitempty"`        // Optimal alignment path
	CostMatrix [][]float64 `json:"cost_matrix,omitempty"` // Accumulated cost matrix (trimmed)
}

// DynamicTimeWarping aligns two sequences of feature vectors
// WHY: DTW is the backbone of the coarse alignment pass, turning two
// piano-roll time axes into a monotone warping path that seeds the
// note-level matching windows
type DynamicTimeWarping struct {
	distanceFn DistanceFunction
}

// NewDynamicTimeWarping creates a DTW instance with Euclidean distance
func NewDynamicTimeWarping() *DynamicTimeWarping {
	return &DynamicTimeWarping{distanceFn: EuclideanDistanceFunc}
}

// NewDynamicTimeWarpingWithDistance creates a DTW instance with a custom distance function
func NewDynamicTimeWarpingWithDistance(fn DistanceFunction) *DynamicTimeWarping {
	if fn == nil {
		fn = EuclideanDistanceFunc
	}
	return &DynamicTimeWarping{distanceFn: fn}
}

// Compute aligns X against Y. The path starts at (0,0) and ends at
// (len(X)-1, len(Y)-1). Empty input yields distance 0 and an empty path.
func (dtw *DynamicTimeWarping) Compute(x, y [][]float64, returnPath, returnCostMatrix bool) DTWResult {
	if len(x) == 0 || len(y) == 0 {
		return DTWResult{}
	}

	distances := dtw.pairwiseDistances(x, y)
	costMatrix := accumulateCost(distances)

	result := DTWResult{
		Distance: costMatrix[len(x)-1][len(y)-1],
	}

	if returnPath {
		result.Path = backtrackPath(costMatrix)
	}

	if returnCostMatrix {
		result.CostMatrix = costMatrix
	}

	return result
}

// pairwiseDistances fills the local distance grid
func (dtw *DynamicTimeWarping) pairwiseDistances(x, y [][]float64) [][]float64 {
	distances := make([][]float64, len(x))
	for i := range x {
		distances[i] = make([]float64, len(y))
		for j := range y {
			distances[i][j] = dtw.distanceFn(x[i], y[j])
		}
	}
	return distances
}

// accumulateCost runs the dynamic program over a padded (M+1)x(N+1) grid
// with +Inf boundaries and returns the trimmed MxN accumulated cost matrix.
func accumulateCost(distances [][]float64) [][]float64 {
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

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			best := math.Min(padded[i-1][j], math.Min(padded[i][j-1], padded[i-1][j-1]))
			padded[i][j] = distances[i-1][j-1] + best
		}
	}

	trimmed := make([][]float64, m)
	for i := range trimmed {
		trimmed[i] = padded[i+1][1:]
	}

	return trimmed
}

// backtrackPath unrolls the optimal path from the trimmed cost matrix.
// Ties prefer the diagonal, then the up step, then the left step.
func backtrackPath(costMatrix [][]float64) []PathStep {
	i := len(costMatrix) - 1
	j := len(costMatrix[0]) - 1

	path := []PathStep{{Row: i, Col: j}}

	for i > 0 || j > 0 {
		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			diagonal := costMatrix[i-1][j-1]
			up := costMatrix[i-1][j]
			left := costMatrix[i][j-1]

			if diagonal <= up && diagonal <= left {
				i--
				j--
			} else if up <= left {
				i--
			} else {
				j--
			}
		}

		path = append(path, PathStep{Row: i, Col: j})
	}

	reversePath(path)
	return path
}

func reversePath(path []PathStep) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}

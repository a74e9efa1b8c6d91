package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/scorealign/symbolic"
)

// TestEstimateCoarseOffset recovers a known start offset and unit tempo
// ratio from a shifted performance.
func TestEstimateCoarseOffset(t *testing.T) {
	var score symbolic.NoteArray
	var perf symbolic.NoteArray
	for i := 0; i < 8; i++ {
		score = append(score, symbolic.NewScoreNote(float64(i), 0.5, 60+i, ids("s", i)))
		// One second per beat, performance starts two seconds in
		perf = append(perf, symbolic.NewPerformanceNote(float64(i)+2.0, 0.5, 60+i, 70, ids("p", i)))
	}

	estimate, err := EstimateCoarseOffset(score, perf, 16)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, estimate.TempoRatio, 1e-9)
	assert.InDelta(t, 2.0, estimate.OffsetSec, 1.0/16)
	assert.InDelta(t, 1.0, estimate.PeakCorrelation, 1e-6)
}

// TestEstimateCoarseOffset_EmptyInput rejects empty sequences.
func TestEstimateCoarseOffset_EmptyInput(t *testing.T) {
	_, err := EstimateCoarseOffset(nil, scalePerformance(), 16)
	assert.Error(t, err)
}

package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/scorealign/symbolic"
)

func sampleAlignment() symbolic.AlignmentVector {
	return symbolic.AlignmentVector{
		symbolic.NewMatch("s0", "p0"),
		symbolic.NewMatch("s1", "p1"),
		symbolic.NewDeletion("s2"),
		symbolic.NewInsertion("p2"),
	}
}

// TestFScore_Identity yields perfect scores when prediction equals ground
// truth.
func TestFScore_Identity(t *testing.T) {
	alignment := sampleAlignment()

	result := FScoreMatches(alignment, alignment)
	assert.Equal(t, 1.0, result.Precision)
	assert.Equal(t, 1.0, result.Recall)
	assert.Equal(t, 1.0, result.FScore)
	assert.Equal(t, 2, result.NPredicted)
	assert.Equal(t, 2, result.NGroundTruth)
}

// TestFScore_PartialOverlap computes the harmonic mean over a half-correct
// prediction.
func TestFScore_PartialOverlap(t *testing.T) {
	prediction := symbolic.AlignmentVector{
		symbolic.NewMatch("s0", "p0"),
		symbolic.NewMatch("s1", "p9"),
	}
	groundTruth := symbolic.AlignmentVector{
		symbolic.NewMatch("s0", "p0"),
		symbolic.NewMatch("s1", "p1"),
	}

	result := FScoreMatches(prediction, groundTruth)
	assert.Equal(t, 0.5, result.Precision)
	assert.Equal(t, 0.5, result.Recall)
	assert.Equal(t, 0.5, result.FScore)
}

// TestFScore_LabelFilter only counts records with the requested labels.
func TestFScore_LabelFilter(t *testing.T) {
	alignment := sampleAlignment()

	deletionsOnly := FScoreAlignments(alignment, alignment, []symbolic.Label{symbolic.LabelDeletion})
	assert.Equal(t, 1, deletionsOnly.NPredicted)
	assert.Equal(t, 1.0, deletionsOnly.FScore)

	// A match on a score id that the ground truth only holds as a deletion
	// does not count
	relabeled := symbolic.AlignmentVector{symbolic.NewMatch("s2", "p9")}
	crossed := FScoreAlignments(relabeled, alignment, []symbolic.Label{symbolic.LabelMatch})
	assert.Equal(t, 0.0, crossed.Precision)
}

// TestFScore_EmptyBothSides is a perfect score by convention.
func TestFScore_EmptyBothSides(t *testing.T) {
	result := FScoreMatches(nil, nil)
	assert.Equal(t, 1.0, result.Precision)
	assert.Equal(t, 1.0, result.Recall)
	assert.Equal(t, 1.0, result.FScore)
}

// TestFScore_OneSidedEmpty zeroes the undefined ratio.
func TestFScore_OneSidedEmpty(t *testing.T) {
	alignment := sampleAlignment()

	noPrediction := FScoreMatches(nil, alignment)
	assert.Equal(t, 0.0, noPrediction.Precision)
	assert.Equal(t, 0.0, noPrediction.Recall)
	assert.Equal(t, 0.0, noPrediction.FScore)

	noTruth := FScoreMatches(alignment, nil)
	assert.Equal(t, 0.0, noTruth.Recall)
	assert.Equal(t, 0.0, noTruth.FScore)
}

package matchers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/scorealign/symbolic"
)

// identityAnchors maps beats one-to-one onto seconds over [0, span].
func identityAnchors(span float64) TimeAlignmentVector {
	return TimeAlignmentVector{
		{ScoreTime: 0, PerformanceTime: 0},
		{ScoreTime: span, PerformanceTime: span},
	}
}

// TestSequenceMatcher_EqualCounts pairs same-pitch notes in projected time
// order, regardless of input order.
func TestSequenceMatcher_EqualCounts(t *testing.T) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0, 0.4, 60, "s0"),
		symbolic.NewScoreNote(2, 0.4, 60, "s1"),
	}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(2.1, 0.4, 60, 70, "late"),
		symbolic.NewPerformanceNote(0.1, 0.4, 60, 70, "early"),
	}

	alignment := NewSequenceAugmentedGreedyMatcher().Align(score, perf, identityAnchors(4), false, 10000)
	assertAlignmentInvariants(t, alignment, score, perf)

	assert.Contains(t, alignment, symbolic.NewMatch("s0", "early"))
	assert.Contains(t, alignment, symbolic.NewMatch("s1", "late"))
}

// TestSequenceMatcher_OmitsWorstScoreNote deletes the score note whose
// omission minimizes the residual onset error.
func TestSequenceMatcher_OmitsWorstScoreNote(t *testing.T) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0, 0.4, 60, "s0"),
		symbolic.NewScoreNote(1, 0.4, 60, "s1"),
		symbolic.NewScoreNote(2, 0.4, 60, "s2"),
	}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(0, 0.4, 60, 70, "p0"),
		symbolic.NewPerformanceNote(2, 0.4, 60, 70, "p1"),
	}

	alignment := NewSequenceAugmentedGreedyMatcher().Align(score, perf, identityAnchors(4), false, 10000)
	assertAlignmentInvariants(t, alignment, score, perf)

	assert.Contains(t, alignment, symbolic.NewMatch("s0", "p0"))
	assert.Contains(t, alignment, symbolic.NewMatch("s2", "p1"))
	assert.Contains(t, alignment, symbolic.NewDeletion("s1"))
}

// TestSequenceMatcher_InsertsExtraPerformanceNote mirrors the omission on
// the performance side.
func TestSequenceMatcher_InsertsExtraPerformanceNote(t *testing.T) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0, 0.4, 64, "s0"),
	}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(0.05, 0.4, 64, 70, "close"),
		symbolic.NewPerformanceNote(1.25, 0.4, 64, 70, "ornament"),
	}

	alignment := NewSequenceAugmentedGreedyMatcher().Align(score, perf, identityAnchors(4), false, 10000)
	assertAlignmentInvariants(t, alignment, score, perf)

	assert.Contains(t, alignment, symbolic.NewMatch("s0", "close"))
	assert.Contains(t, alignment, symbolic.NewInsertion("ornament"))
}

// TestSequenceMatcher_PitchOnlyOnOneSide emits deletions and insertions for
// pitches the other side never plays.
func TestSequenceMatcher_PitchOnlyOnOneSide(t *testing.T) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0, 0.4, 60, "s0"),
		symbolic.NewScoreNote(1, 0.4, 62, "unplayed"),
	}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(0, 0.4, 60, 70, "p0"),
		symbolic.NewPerformanceNote(1, 0.4, 71, 70, "stray"),
	}

	alignment := NewSequenceAugmentedGreedyMatcher().Align(score, perf, identityAnchors(4), false, 10000)
	assertAlignmentInvariants(t, alignment, score, perf)

	assert.Contains(t, alignment, symbolic.NewDeletion("unplayed"))
	assert.Contains(t, alignment, symbolic.NewInsertion("stray"))
}

// TestSequenceMatcher_TooFewAnchors falls back to the simple greedy
// matcher.
func TestSequenceMatcher_TooFewAnchors(t *testing.T) {
	score := scaleScore()
	perf := scalePerformance()

	alignment := NewSequenceAugmentedGreedyMatcher().Align(
		score, perf, TimeAlignmentVector{{ScoreTime: 0, PerformanceTime: 0}}, false, 10000)

	assert.Equal(t, NewSimplestGreedyMatcher().Align(score, perf), alignment)
}

// TestSequenceMatcher_Shift lets a constant offset be absorbed so the
// outlier, not the shifted cluster, is omitted.
func TestSequenceMatcher_Shift(t *testing.T) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0, 0.4, 60, "s0"),
		symbolic.NewScoreNote(1, 0.4, 60, "s1"),
	}
	// Both candidate pairs sit exactly one second late plus one stray note
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(1.0, 0.4, 60, 70, "q0"),
		symbolic.NewPerformanceNote(2.0, 0.4, 60, 70, "q1"),
		symbolic.NewPerformanceNote(3.7, 0.4, 60, 70, "stray"),
	}

	alignment := NewSequenceAugmentedGreedyMatcher().Align(score, perf, identityAnchors(4), true, 10000)
	assertAlignmentInvariants(t, alignment, score, perf)

	assert.Contains(t, alignment, symbolic.NewMatch("s0", "q0"))
	assert.Contains(t, alignment, symbolic.NewMatch("s1", "q1"))
	assert.Contains(t, alignment, symbolic.NewInsertion("stray"))
}

// TestSequenceMatcher_SamplingBudget keeps the output valid when the subset
// space exceeds the combination cap and sampling takes over.
func TestSequenceMatcher_SamplingBudget(t *testing.T) {
	var score symbolic.NoteArray
	for i := 0; i < 12; i++ {
		score = append(score, symbolic.NewScoreNote(float64(i), 0.4, 60, ids("s", i)))
	}
	var perf symbolic.NoteArray
	for i := 0; i < 6; i++ {
		perf = append(perf, symbolic.NewPerformanceNote(float64(2*i), 0.4, 60, 70, ids("p", i)))
	}

	// C(12,6) = 924 candidate subsets, capped at 10
	alignment := NewSequenceAugmentedGreedyMatcherWithSeed(7).Align(
		score, perf, identityAnchors(12), false, 10)
	assertAlignmentInvariants(t, alignment, score, perf)

	matches, deletions, insertions := countLabels(alignment)
	assert.Equal(t, 6, matches)
	assert.Equal(t, 6, deletions)
	assert.Equal(t, 0, insertions)
}

// TestSequenceMatcher_Determinism repeats a run with the same seed and
// expects identical output.
func TestSequenceMatcher_Determinism(t *testing.T) {
	var score symbolic.NoteArray
	for i := 0; i < 10; i++ {
		score = append(score, symbolic.NewScoreNote(float64(i), 0.4, 60, ids("s", i)))
	}
	var perf symbolic.NoteArray
	for i := 0; i < 5; i++ {
		perf = append(perf, symbolic.NewPerformanceNote(float64(2*i)+0.1, 0.4, 60, 70, ids("p", i)))
	}

	first := NewSequenceAugmentedGreedyMatcherWithSeed(3).Align(score, perf, identityAnchors(10), false, 5)
	second := NewSequenceAugmentedGreedyMatcherWithSeed(3).Align(score, perf, identityAnchors(10), false, 5)

	require.Equal(t, first, second)
}

func ids(prefix string, i int) string {
	return fmt.Sprintf("%s%d", prefix, i)
}

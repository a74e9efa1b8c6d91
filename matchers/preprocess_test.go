package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/scorealign/algorithms/stats"
	"github.com/RyanBlaney/scorealign/symbolic"
)

// TestAlignmentTimesFromDTW_Monotone verifies anchors come out sorted and
// strictly increasing in score time after deduplication.
func TestAlignmentTimesFromDTW_Monotone(t *testing.T) {
	anchors := AlignmentTimesFromDTW(
		scaleScore(), scalePerformance(), stats.NewDynamicTimeWarping(), 4.0, 16, 16)

	require.NotEmpty(t, anchors)
	assert.Equal(t, 0.0, anchors[0].ScoreTime)
	assert.Equal(t, 0.0, anchors[0].PerformanceTime)

	for i := 1; i < len(anchors); i++ {
		assert.Greater(t, anchors[i].ScoreTime, anchors[i-1].ScoreTime+anchorDedupTolerance/2,
			"score times must strictly increase")
		assert.GreaterOrEqual(t, anchors[i].PerformanceTime, anchors[i-1].PerformanceTime,
			"performance times never run backwards")
	}
}

// TestAlignmentTimesFromDTW_EmptyInput yields no anchors.
func TestAlignmentTimesFromDTW_EmptyInput(t *testing.T) {
	anchors := AlignmentTimesFromDTW(
		symbolic.NoteArray{}, scalePerformance(), stats.NewDynamicTimeWarping(), 4.0, 16, 16)

	assert.Empty(t, anchors)
}

// TestCutNoteArrays_WindowCount emits one window per anchor step.
func TestCutNoteArrays_WindowCount(t *testing.T) {
	anchors := TimeAlignmentVector{
		{ScoreTime: 0, PerformanceTime: 0},
		{ScoreTime: 1, PerformanceTime: 1},
		{ScoreTime: 2, PerformanceTime: 2},
		{ScoreTime: 3, PerformanceTime: 3},
	}

	scoreArrays, perfArrays := CutNoteArrays(
		scalePerformance(), scaleScore(), anchors, 0.25, 0.25, 1, false)

	assert.Len(t, scoreArrays, 3)
	assert.Len(t, perfArrays, 3)

	scoreArrays, perfArrays = CutNoteArrays(
		scalePerformance(), scaleScore(), anchors, 0.25, 0.25, 2, false)

	assert.Len(t, scoreArrays, 2)
	assert.Len(t, perfArrays, 2)
}

// TestCutNoteArrays_Selection includes exactly the notes whose onsets fall
// in the fuzz-expanded interval.
func TestCutNoteArrays_Selection(t *testing.T) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0.0, 0.1, 60, "in-start"),
		symbolic.NewScoreNote(1.2, 0.1, 62, "in-fuzz"),
		symbolic.NewScoreNote(3.0, 0.1, 64, "out"),
	}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(0.0, 0.1, 60, 70, "in"),
		symbolic.NewPerformanceNote(5.0, 0.1, 62, 70, "out"),
	}
	anchors := TimeAlignmentVector{
		{ScoreTime: 0, PerformanceTime: 0},
		{ScoreTime: 1, PerformanceTime: 1},
	}

	scoreArrays, perfArrays := CutNoteArrays(perf, score, anchors, 0.25, 0.25, 1, false)

	require.Len(t, scoreArrays, 1)
	assert.Equal(t, []string{"in-start", "in-fuzz"}, scoreArrays[0].IDs())
	assert.Equal(t, []string{"in"}, perfArrays[0].IDs())
}

// TestCutNoteArrays_TempoRelativeFuzz scales the performance margin by the
// local seconds-per-beat ratio.
func TestCutNoteArrays_TempoRelativeFuzz(t *testing.T) {
	score := symbolic.NoteArray{symbolic.NewScoreNote(0.5, 0.1, 60, "s")}
	perf := symbolic.NoteArray{symbolic.NewPerformanceNote(2.3, 0.1, 60, 70, "late")}
	// One beat spans two seconds, tempo ratio 2
	anchors := TimeAlignmentVector{
		{ScoreTime: 0, PerformanceTime: 0},
		{ScoreTime: 1, PerformanceTime: 2},
	}

	_, relArrays := CutNoteArrays(perf, score, anchors, 0.25, 0.2, 1, true)
	require.Len(t, relArrays, 1)
	assert.Equal(t, []string{"late"}, relArrays[0].IDs(),
		"margin 0.2*2 admits an onset 0.3 past the window end")

	_, absArrays := CutNoteArrays(perf, score, anchors, 0.25, 0.2, 1, false)
	require.Len(t, absArrays, 1)
	assert.Empty(t, absArrays[0], "absolute margin 0.2 excludes the same onset")
}

// TestCutNoteArrays_TooFewAnchors falls back to a single whole-input
// window.
func TestCutNoteArrays_TooFewAnchors(t *testing.T) {
	score := scaleScore()
	perf := scalePerformance()
	anchors := TimeAlignmentVector{{ScoreTime: 0, PerformanceTime: 0}}

	scoreArrays, perfArrays := CutNoteArrays(perf, score, anchors, 4, 4, 1, true)

	require.Len(t, scoreArrays, 1)
	require.Len(t, perfArrays, 1)
	assert.Equal(t, score, scoreArrays[0])
	assert.Equal(t, perf, perfArrays[0])
}

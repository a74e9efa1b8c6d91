package matchers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/scorealign/symbolic"
)

// scalePitches is a C major scale, C4 to C5.
var scalePitches = []int{60, 62, 64, 65, 67, 69, 71, 72}

// scaleScore builds the eight-note score fixture: half-beat intervals,
// 0.4 beat durations, ids s0..s7.
func scaleScore() symbolic.NoteArray {
	notes := make(symbolic.NoteArray, len(scalePitches))
	for i, pitch := range scalePitches {
		notes[i] = symbolic.NewScoreNote(float64(i)*0.5, 0.4, pitch, fmt.Sprintf("s%d", i))
	}
	return notes
}

// scalePerformance builds the matching performance fixture at 0.6 seconds
// per note, ids p0..p7.
func scalePerformance() symbolic.NoteArray {
	notes := make(symbolic.NoteArray, len(scalePitches))
	for i, pitch := range scalePitches {
		notes[i] = symbolic.NewPerformanceNote(float64(i)*0.6, 0.4, pitch, 70, fmt.Sprintf("p%d", i))
	}
	return notes
}

// countLabels tallies an alignment by label.
func countLabels(alignment symbolic.AlignmentVector) (matches, deletions, insertions int) {
	for _, align := range alignment {
		switch align.Label {
		case symbolic.LabelMatch:
			matches++
		case symbolic.LabelDeletion:
			deletions++
		case symbolic.LabelInsertion:
			insertions++
		}
	}
	return
}

// assertAlignmentInvariants checks the universal output contract: every
// score id in exactly one Match or Deletion, every performance id in
// exactly one Match or Insertion, labels carrying the right ids.
func assertAlignmentInvariants(t *testing.T, alignment symbolic.AlignmentVector, scoreNotes, performanceNotes symbolic.NoteArray) {
	t.Helper()

	seenScore := make(map[string]int)
	seenPerf := make(map[string]int)

	for _, align := range alignment {
		switch align.Label {
		case symbolic.LabelMatch:
			assert.NotEmpty(t, align.ScoreID, "match needs a score id")
			assert.NotEmpty(t, align.PerformanceID, "match needs a performance id")
			seenScore[align.ScoreID]++
			seenPerf[align.PerformanceID]++
		case symbolic.LabelDeletion:
			assert.NotEmpty(t, align.ScoreID)
			assert.Empty(t, align.PerformanceID, "deletion must not carry a performance id")
			seenScore[align.ScoreID]++
		case symbolic.LabelInsertion:
			assert.NotEmpty(t, align.PerformanceID)
			assert.Empty(t, align.ScoreID, "insertion must not carry a score id")
			seenPerf[align.PerformanceID]++
		}
	}

	for _, note := range scoreNotes {
		assert.Equal(t, 1, seenScore[note.ID], "score id %s must appear exactly once", note.ID)
	}
	for _, note := range performanceNotes {
		assert.Equal(t, 1, seenPerf[note.ID], "performance id %s must appear exactly once", note.ID)
	}
	assert.Len(t, seenScore, len(scoreNotes), "no foreign score ids")
	assert.Len(t, seenPerf, len(performanceNotes), "no foreign performance ids")
}

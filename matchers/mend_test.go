package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/scorealign/symbolic"
)

func mendFixtureNotes() (symbolic.NoteArray, symbolic.NoteArray) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0, 0.4, 60, "s0"),
		symbolic.NewScoreNote(1, 0.4, 62, "s1"),
	}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(0, 0.4, 60, 70, "p0"),
		symbolic.NewPerformanceNote(1, 0.4, 62, 70, "p1"),
	}
	return score, perf
}

// TestMend_AgreeingWindows collapses repeated votes for the same pair into
// one match.
func TestMend_AgreeingWindows(t *testing.T) {
	score, perf := mendFixtureNotes()

	windows := []symbolic.AlignmentVector{
		{symbolic.NewMatch("s0", "p0"), symbolic.NewMatch("s1", "p1")},
		{symbolic.NewMatch("s0", "p0"), symbolic.NewMatch("s1", "p1")},
	}

	global := MendNoteAlignments(windows, perf, score, nil)
	assertAlignmentInvariants(t, global, score, perf)

	matches, deletions, insertions := countLabels(global)
	assert.Equal(t, 2, matches)
	assert.Equal(t, 0, deletions)
	assert.Equal(t, 0, insertions)
}

// TestMend_ContestedPerformanceNote resolves a performance note claimed by
// two windows toward the lowest window, then recovers the loser through the
// greedy fallback.
func TestMend_ContestedPerformanceNote(t *testing.T) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0, 0.4, 60, "s0"),
		symbolic.NewScoreNote(1, 0.4, 60, "s1"),
	}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(0, 0.4, 60, 70, "p0"),
		symbolic.NewPerformanceNote(1, 0.4, 60, 70, "p1"),
	}

	windows := []symbolic.AlignmentVector{
		{symbolic.NewMatch("s0", "p0")},
		{symbolic.NewMatch("s1", "p0")},
	}

	global := MendNoteAlignments(windows, perf, score, nil)
	assertAlignmentInvariants(t, global, score, perf)

	assert.Contains(t, global, symbolic.NewMatch("s0", "p0"), "the earlier window keeps its claim")
	assert.Contains(t, global, symbolic.NewMatch("s1", "p1"), "the loser falls back to the free pitch-equal note")
}

// TestMend_MultipleCandidates picks the lowest usable window for a score
// note matched differently across windows.
func TestMend_MultipleCandidates(t *testing.T) {
	score := symbolic.NoteArray{symbolic.NewScoreNote(0, 0.4, 60, "s0")}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(0, 0.4, 60, 70, "p0"),
		symbolic.NewPerformanceNote(0.1, 0.4, 60, 70, "p1"),
	}

	windows := []symbolic.AlignmentVector{
		{symbolic.NewMatch("s0", "p1")},
		{symbolic.NewMatch("s0", "p0")},
	}

	global := MendNoteAlignments(windows, perf, score, nil)
	assertAlignmentInvariants(t, global, score, perf)

	assert.Contains(t, global, symbolic.NewMatch("s0", "p1"))
	assert.Contains(t, global, symbolic.NewInsertion("p0"))
}

// TestMend_LeftoversBecomeDeletionsAndInsertions emits the remaining ids
// with their one-sided labels.
func TestMend_LeftoversBecomeDeletionsAndInsertions(t *testing.T) {
	score := symbolic.NoteArray{
		symbolic.NewScoreNote(0, 0.4, 60, "s0"),
		symbolic.NewScoreNote(1, 0.4, 62, "gone"),
	}
	perf := symbolic.NoteArray{
		symbolic.NewPerformanceNote(0, 0.4, 60, 70, "p0"),
		symbolic.NewPerformanceNote(1, 0.4, 71, 70, "extra"),
	}

	windows := []symbolic.AlignmentVector{
		{symbolic.NewMatch("s0", "p0")},
	}

	global := MendNoteAlignments(windows, perf, score, nil)
	assertAlignmentInvariants(t, global, score, perf)

	assert.Contains(t, global, symbolic.NewDeletion("gone"))
	assert.Contains(t, global, symbolic.NewInsertion("extra"))
}

// TestMend_NoWindows still emits every note exactly once.
func TestMend_NoWindows(t *testing.T) {
	score, perf := mendFixtureNotes()

	global := MendNoteAlignments(nil, perf, score, nil)
	assertAlignmentInvariants(t, global, score, perf)

	// The greedy fallback pairs the pitch-equal notes
	matches, _, _ := countLabels(global)
	assert.Equal(t, 2, matches)
}

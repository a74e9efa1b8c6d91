package matchers

import (
	"github.com/RyanBlaney/scorealign/symbolic"
)

// SimplestGreedyMatcher is a pitch-wise first-fit baseline. It is also the
// fallback when a window carries too few anchors for sequence matching and
// the leftover stage of mending.
type SimplestGreedyMatcher struct{}

// NewSimplestGreedyMatcher creates a greedy matcher
func NewSimplestGreedyMatcher() *SimplestGreedyMatcher {
	return &SimplestGreedyMatcher{}
}

// Align matches each score note to the first unconsumed performance note of
// the same pitch, in input order. Unmatched score notes become deletions,
// unmatched performance notes insertions.
func (m *SimplestGreedyMatcher) Align(scoreNotes, performanceNotes symbolic.NoteArray) symbolic.AlignmentVector {
	var alignment symbolic.AlignmentVector
	performanceAligned := make(map[string]struct{})

	for _, scoreNote := range scoreNotes {
		matched := false

		for _, perfNote := range performanceNotes {
			if scoreNote.Pitch != perfNote.Pitch {
				continue
			}
			if _, used := performanceAligned[perfNote.ID]; used {
				continue
			}

			performanceAligned[perfNote.ID] = struct{}{}
			alignment = append(alignment, symbolic.NewMatch(scoreNote.ID, perfNote.ID))
			matched = true
			break
		}

		if !matched {
			alignment = append(alignment, symbolic.NewDeletion(scoreNote.ID))
		}
	}

	for _, perfNote := range performanceNotes {
		if _, used := performanceAligned[perfNote.ID]; !used {
			alignment = append(alignment, symbolic.NewInsertion(perfNote.ID))
		}
	}

	return alignment
}

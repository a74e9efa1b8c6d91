package matchers

import (
	"sort"

	"github.com/RyanBlaney/scorealign/symbolic"
)

// matchCandidate is one window's vote for pairing two ids.
type matchCandidate struct {
	window int
	id     string // the id on the other side of the match
}

// MendNoteAlignments reconciles overlapping per-window alignments into one
// global alignment in which every score id ends up in exactly one Match or
// Deletion and every performance id in exactly one Match or Insertion.
// Conflicts between windows resolve toward the lowest window id; leftovers
// fall back to greedy matching; whatever remains is emitted as deletions and
// insertions. Score ids are visited in sorted order so tiebreaking is
// reproducible.
func MendNoteAlignments(
	noteAlignments []symbolic.AlignmentVector,
	performanceNotes, scoreNotes symbolic.NoteArray,
	nodeTimes TimeAlignmentVector,
) symbolic.AlignmentVector {
	_ = nodeTimes

	// Multi-indices over the per-window matches
	scoreCandidates := make(map[string][]matchCandidate)
	perfCandidates := make(map[string][]matchCandidate)

	for windowID, windowAlignment := range noteAlignments {
		for _, align := range windowAlignment {
			if align.Label != symbolic.LabelMatch {
				continue
			}
			scoreCandidates[align.ScoreID] = append(scoreCandidates[align.ScoreID],
				matchCandidate{window: windowID, id: align.PerformanceID})
			perfCandidates[align.PerformanceID] = append(perfCandidates[align.PerformanceID],
				matchCandidate{window: windowID, id: align.ScoreID})
		}
	}

	usedScore := make(map[string]struct{})
	usedPerf := make(map[string]struct{})

	var global symbolic.AlignmentVector

	accept := func(scoreID, perfID string) {
		global = append(global, symbolic.NewMatch(scoreID, perfID))
		usedScore[scoreID] = struct{}{}
		usedPerf[perfID] = struct{}{}
	}

	scoreIDs := make([]string, 0, len(scoreCandidates))
	for scoreID := range scoreCandidates {
		scoreIDs = append(scoreIDs, scoreID)
	}
	sort.Strings(scoreIDs)

	for _, scoreID := range scoreIDs {
		if _, used := usedScore[scoreID]; used {
			continue
		}

		candidates := scoreCandidates[scoreID]

		if len(candidates) == 1 {
			perfID := candidates[0].id
			if _, used := usedPerf[perfID]; used {
				continue
			}

			rivals := perfCandidates[perfID]
			if len(rivals) == 1 {
				accept(scoreID, perfID)
				continue
			}

			// Contested performance note: the lowest-window rival whose
			// score id is still free wins it.
			for _, rival := range rivals {
				if _, used := usedScore[rival.id]; !used {
					accept(rival.id, perfID)
					break
				}
			}
			continue
		}

		// Multiple candidate performance notes: take the lowest-window one
		// that is free and not claimed earlier by a different free score id.
		for _, candidate := range candidates {
			if _, used := usedPerf[candidate.id]; used {
				continue
			}

			if earlierClaim(perfCandidates[candidate.id], candidate.window, scoreID, usedScore) {
				continue
			}

			accept(scoreID, candidate.id)
			break
		}
	}

	// Greedy fallback over whatever both sides still have unmatched
	var leftoverScore symbolic.NoteArray
	for _, note := range scoreNotes {
		if _, used := usedScore[note.ID]; !used {
			leftoverScore = append(leftoverScore, note)
		}
	}
	var leftoverPerf symbolic.NoteArray
	for _, note := range performanceNotes {
		if _, used := usedPerf[note.ID]; !used {
			leftoverPerf = append(leftoverPerf, note)
		}
	}

	for _, align := range NewSimplestGreedyMatcher().Align(leftoverScore, leftoverPerf) {
		if align.Label != symbolic.LabelMatch {
			continue
		}
		_, scoreUsed := usedScore[align.ScoreID]
		_, perfUsed := usedPerf[align.PerformanceID]
		if !scoreUsed && !perfUsed {
			accept(align.ScoreID, align.PerformanceID)
		}
	}

	// Everything still unclaimed is a deletion or an insertion
	for _, note := range scoreNotes {
		if _, used := usedScore[note.ID]; !used {
			global = append(global, symbolic.NewDeletion(note.ID))
		}
	}
	for _, note := range performanceNotes {
		if _, used := usedPerf[note.ID]; !used {
			global = append(global, symbolic.NewInsertion(note.ID))
		}
	}

	return global
}

// earlierClaim reports whether a strictly earlier window pairs the contested
// performance note with a different score id that is still free.
func earlierClaim(rivals []matchCandidate, window int, scoreID string, usedScore map[string]struct{}) bool {
	for _, rival := range rivals {
		if rival.window >= window {
			continue
		}
		if rival.id == scoreID {
			continue
		}
		if _, used := usedScore[rival.id]; !used {
			return true
		}
	}
	return false
}

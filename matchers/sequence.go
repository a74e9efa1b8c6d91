package matchers

import (
	"math"
	"math/rand"
	"sort"

	"github.com/RyanBlaney/scorealign/algorithms/common"
	"github.com/RyanBlaney/scorealign/symbolic"
)

// defaultSamplingSeed keeps the sampling branch reproducible unless a caller
// injects its own source.
const defaultSamplingSeed = 1

// SequenceAugmentedGreedyMatcher aligns notes pitch by pitch inside a
// window. Score onsets are projected into performance time through the
// window anchors; length imbalances per pitch are resolved by a bounded
// combinatorial search over which notes to omit.
// WHY: within one pitch the played order is reliable, so the assignment
// reduces to choosing omissions that minimize residual onset error rather
// than a full bipartite matching.
type SequenceAugmentedGreedyMatcher struct {
	rng *rand.Rand
}

// NewSequenceAugmentedGreedyMatcher creates a matcher with a fixed-seed
// sampling source.
func NewSequenceAugmentedGreedyMatcher() *SequenceAugmentedGreedyMatcher {
	return NewSequenceAugmentedGreedyMatcherWithSeed(defaultSamplingSeed)
}

// NewSequenceAugmentedGreedyMatcherWithSeed creates a matcher whose
// combination sampling draws from the given seed.
func NewSequenceAugmentedGreedyMatcherWithSeed(seed int64) *SequenceAugmentedGreedyMatcher {
	return &SequenceAugmentedGreedyMatcher{rng: rand.New(rand.NewSource(seed))}
}

// Align aligns a window's score notes against its performance notes using
// the window anchors. With fewer than two anchors it falls back to the
// simple greedy matcher. shift allows a per-pitch global onset shift;
// capCombinations bounds the omission search before sampling kicks in.
func (m *SequenceAugmentedGreedyMatcher) Align(
	scoreNotes, performanceNotes symbolic.NoteArray,
	alignmentTimes TimeAlignmentVector,
	shift bool,
	capCombinations int,
) symbolic.AlignmentVector {
	if len(alignmentTimes) < 2 {
		return NewSimplestGreedyMatcher().Align(scoreNotes, performanceNotes)
	}

	interpolator, err := interpolatorFromAnchors(alignmentTimes)
	if err != nil {
		return NewSimplestGreedyMatcher().Align(scoreNotes, performanceNotes)
	}

	var alignment symbolic.AlignmentVector
	performanceAligned := make(map[string]struct{})

	for _, pitch := range scoreNotes.UniquePitches() {
		scorePitchNotes := scoreNotes.FilterByPitch(pitch)
		perfPitchNotes := performanceNotes.FilterByPitch(pitch)

		if len(scorePitchNotes) == 0 || len(perfPitchNotes) == 0 {
			for _, note := range scorePitchNotes {
				alignment = append(alignment, symbolic.NewDeletion(note.ID))
			}
			for _, note := range perfPitchNotes {
				alignment = append(alignment, symbolic.NewInsertion(note.ID))
				performanceAligned[note.ID] = struct{}{}
			}
			continue
		}

		// Project score onsets into performance time and sort both sides
		scoreOnsets := interpolator.InterpolateAll(scorePitchNotes.OnsetsBeat())
		perfOnsets := perfPitchNotes.OnsetsSec()

		scoreOrder := sortedOrder(scoreOnsets)
		perfOrder := sortedOrder(perfOnsets)

		sortedScoreOnsets := make([]float64, len(scoreOnsets))
		for i, idx := range scoreOrder {
			sortedScoreOnsets[i] = scoreOnsets[idx]
		}
		sortedPerfOnsets := make([]float64, len(perfOnsets))
		for i, idx := range perfOrder {
			sortedPerfOnsets[i] = perfOnsets[idx]
		}

		scoreCount := len(sortedScoreOnsets)
		perfCount := len(sortedPerfOnsets)

		if scoreCount == perfCount {
			for i := 0; i < scoreCount; i++ {
				scoreNote := scorePitchNotes[scoreOrder[i]]
				perfNote := perfPitchNotes[perfOrder[i]]
				alignment = append(alignment, symbolic.NewMatch(scoreNote.ID, perfNote.ID))
				performanceAligned[perfNote.ID] = struct{}{}
			}
			continue
		}

		scoreLonger := scoreCount > perfCount

		longTimes, shortTimes := sortedScoreOnsets, sortedPerfOnsets
		if !scoreLonger {
			longTimes, shortTimes = sortedPerfOnsets, sortedScoreOnsets
		}

		omitted := m.findBestCombination(longTimes, shortTimes, shift, capCombinations).omit

		if scoreLonger {
			perfIdx := 0
			for scoreIdx := 0; scoreIdx < scoreCount; scoreIdx++ {
				scoreNote := scorePitchNotes[scoreOrder[scoreIdx]]

				if _, omit := omitted[scoreIdx]; !omit && perfIdx < perfCount {
					perfNote := perfPitchNotes[perfOrder[perfIdx]]
					alignment = append(alignment, symbolic.NewMatch(scoreNote.ID, perfNote.ID))
					performanceAligned[perfNote.ID] = struct{}{}
					perfIdx++
				} else {
					alignment = append(alignment, symbolic.NewDeletion(scoreNote.ID))
				}
			}
		} else {
			scoreIdx := 0
			for perfIdx := 0; perfIdx < perfCount; perfIdx++ {
				perfNote := perfPitchNotes[perfOrder[perfIdx]]
				performanceAligned[perfNote.ID] = struct{}{}

				if _, omit := omitted[perfIdx]; !omit && scoreIdx < scoreCount {
					scoreNote := scorePitchNotes[scoreOrder[scoreIdx]]
					alignment = append(alignment, symbolic.NewMatch(scoreNote.ID, perfNote.ID))
					scoreIdx++
				} else {
					alignment = append(alignment, symbolic.NewInsertion(perfNote.ID))
				}
			}
		}
	}

	// Performance notes whose pitch never occurs in the score
	for _, perfNote := range performanceNotes {
		if _, used := performanceAligned[perfNote.ID]; !used {
			alignment = append(alignment, symbolic.NewInsertion(perfNote.ID))
		}
	}

	return alignment
}

// combinationResult carries the residual score of an omission subset.
type combinationResult struct {
	score float64
	omit  map[int]struct{}
}

// findBestCombination picks which |long|-|short| entries of longTimes to
// omit so the retained in-order sequence best fits shortTimes under squared
// onset error. All subsets are enumerated when their count stays within
// capCombinations; beyond that, capCombinations subsets are sampled.
func (m *SequenceAugmentedGreedyMatcher) findBestCombination(
	longTimes, shortTimes []float64,
	shift bool,
	capCombinations int,
) combinationResult {
	nLong := len(longTimes)
	extraNotes := nLong - len(shortTimes)

	if extraNotes == 0 {
		return combinationResult{score: 0}
	}

	best := combinationResult{score: math.Inf(1)}
	if capCombinations <= 0 {
		return best
	}

	evaluate := func(omit map[int]struct{}) {
		shortened := make([]float64, 0, nLong-len(omit))
		for i, t := range longTimes {
			if _, skip := omit[i]; !skip {
				shortened = append(shortened, t)
			}
		}

		var score float64
		if shift && len(shortened) == len(shortTimes) {
			diffs := make([]float64, len(shortened))
			for i := range shortened {
				diffs[i] = shortened[i] - shortTimes[i]
			}
			optimalShift := common.Mean(diffs)
			for _, d := range diffs {
				score += (d - optimalShift) * (d - optimalShift)
			}
		} else {
			score = common.SumSquaredResiduals(shortened, shortTimes)
		}

		if score < best.score {
			best.score = score
			best.omit = omit
		}
	}

	if countCombinations(nLong, extraNotes) > float64(capCombinations) {
		for s := 0; s < capCombinations; s++ {
			evaluate(m.sampleSubset(nLong, extraNotes))
		}
		return best
	}

	// Lexicographic sweep over all index subsets
	selector := make([]int, extraNotes)
	for i := range selector {
		selector[i] = i
	}
	for {
		omit := make(map[int]struct{}, extraNotes)
		for _, idx := range selector {
			omit[idx] = struct{}{}
		}
		evaluate(omit)

		i := extraNotes - 1
		for i >= 0 && selector[i] == nLong-extraNotes+i {
			i--
		}
		if i < 0 {
			break
		}
		selector[i]++
		for j := i + 1; j < extraNotes; j++ {
			selector[j] = selector[j-1] + 1
		}
	}

	return best
}

// sampleSubset draws k distinct indices from [0, n) without replacement.
func (m *SequenceAugmentedGreedyMatcher) sampleSubset(n, k int) map[int]struct{} {
	available := make([]int, n)
	for i := range available {
		available[i] = i
	}

	subset := make(map[int]struct{}, k)
	for j := 0; j < k; j++ {
		pick := m.rng.Intn(len(available))
		subset[available[pick]] = struct{}{}
		available = append(available[:pick], available[pick+1:]...)
	}

	return subset
}

// countCombinations computes C(n, k) in floating point, which is enough to
// compare against the combination cap.
func countCombinations(n, k int) float64 {
	total := 1.0
	for i := 0; i < k; i++ {
		total *= float64(n-i) / float64(i+1)
	}
	return total
}

// sortedOrder returns the index permutation sorting values ascending.
func sortedOrder(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})
	return order
}

package matchers

import (
	"math"
	"sort"

	"github.com/RyanBlaney/scorealign/algorithms/common"
	"github.com/RyanBlaney/scorealign/algorithms/stats"
	"github.com/RyanBlaney/scorealign/symbolic"
)

// anchorDedupTolerance collapses anchors whose score times coincide.
const anchorDedupTolerance = 1e-6

// TimeAlignment pairs a score time in beats with a performance time in
// seconds.
type TimeAlignment struct {
	ScoreTime       float64 `json:"score_time"`       // beats
	PerformanceTime float64 `json:"performance_time"` // seconds
}

// TimeAlignmentVector is a list of anchors, non-decreasing in score time
// after deduplication.
type TimeAlignmentVector []TimeAlignment

// AlignmentTimesFromDTW extracts coarse time anchors by warping the two
// piano rolls against each other. The rolls are oriented so the DTW axis
// indexes time and the feature axis indexes pitch; each path step maps back
// to a (score_time, performance_time) pair. scoreFineNodeLength is accepted
// as a granularity hook but does not alter the result.
func AlignmentTimesFromDTW(
	scoreNotes, performanceNotes symbolic.NoteArray,
	matcher *stats.DynamicTimeWarping,
	scoreFineNodeLength float64,
	sTimeDiv, pTimeDiv int,
) TimeAlignmentVector {
	_ = scoreFineNodeLength

	scoreRoll := scoreNotes.ComputePianoroll(sTimeDiv, false)
	perfRoll := performanceNotes.ComputePianoroll(pTimeDiv, false)

	// Threshold the performance roll to a binary grid
	for _, row := range perfRoll {
		for i, v := range row {
			if v > 0 {
				row[i] = 1.0
			} else {
				row[i] = 0.0
			}
		}
	}

	result := matcher.Compute(scoreRoll, perfRoll, true, false)

	alignmentTimes := make(TimeAlignmentVector, 0, len(result.Path))
	for _, step := range result.Path {
		alignmentTimes = append(alignmentTimes, TimeAlignment{
			ScoreTime:       float64(step.Row) / float64(sTimeDiv),
			PerformanceTime: float64(step.Col) / float64(pTimeDiv),
		})
	}

	sort.SliceStable(alignmentTimes, func(i, j int) bool {
		return alignmentTimes[i].ScoreTime < alignmentTimes[j].ScoreTime
	})

	deduped := alignmentTimes[:0]
	for i, at := range alignmentTimes {
		if i > 0 && math.Abs(at.ScoreTime-deduped[len(deduped)-1].ScoreTime) < anchorDedupTolerance {
			continue
		}
		deduped = append(deduped, at)
	}

	return deduped
}

// CutNoteArrays cuts both sequences into overlapping windows delimited by
// anchor pairs, expanded by the fuzz margins. When the performance fuzz is
// tempo-relative it scales with the local seconds-per-beat ratio. Fewer than
// two anchors yield a single window holding everything.
func CutNoteArrays(
	performanceNotes, scoreNotes symbolic.NoteArray,
	alignmentTimes TimeAlignmentVector,
	sfuzziness, pfuzziness float64,
	windowSize int,
	pfuzzinessRelativeToTempo bool,
) ([]symbolic.NoteArray, []symbolic.NoteArray) {
	if len(alignmentTimes) < 2 || windowSize < 1 {
		return []symbolic.NoteArray{scoreNotes}, []symbolic.NoteArray{performanceNotes}
	}

	var scoreArrays []symbolic.NoteArray
	var performanceArrays []symbolic.NoteArray

	for i := 0; i+windowSize < len(alignmentTimes); i++ {
		windowStartScore := alignmentTimes[i].ScoreTime
		windowEndScore := alignmentTimes[i+windowSize].ScoreTime
		windowStartPerf := alignmentTimes[i].PerformanceTime
		windowEndPerf := alignmentTimes[i+windowSize].PerformanceTime

		perfMargin := pfuzziness
		if pfuzzinessRelativeToTempo {
			tempoRatio := (windowEndPerf - windowStartPerf) /
				math.Max(windowEndScore-windowStartScore, 1e-6)
			perfMargin = pfuzziness * tempoRatio
		}

		var windowScoreNotes symbolic.NoteArray
		for _, note := range scoreNotes {
			if note.OnsetBeat >= windowStartScore-sfuzziness &&
				note.OnsetBeat <= windowEndScore+sfuzziness {
				windowScoreNotes = append(windowScoreNotes, note)
			}
		}

		var windowPerfNotes symbolic.NoteArray
		for _, note := range performanceNotes {
			if note.OnsetSec >= windowStartPerf-perfMargin &&
				note.OnsetSec <= windowEndPerf+perfMargin {
				windowPerfNotes = append(windowPerfNotes, note)
			}
		}

		scoreArrays = append(scoreArrays, windowScoreNotes)
		performanceArrays = append(performanceArrays, windowPerfNotes)
	}

	return scoreArrays, performanceArrays
}

// interpolatorFromAnchors builds the score-time to performance-time map.
func interpolatorFromAnchors(alignmentTimes TimeAlignmentVector) (*common.LinearInterpolator, error) {
	scoreTimes := make([]float64, len(alignmentTimes))
	perfTimes := make([]float64, len(alignmentTimes))
	for i, at := range alignmentTimes {
		scoreTimes[i] = at.ScoreTime
		perfTimes[i] = at.PerformanceTime
	}
	return common.NewLinearInterpolator(scoreTimes, perfTimes)
}

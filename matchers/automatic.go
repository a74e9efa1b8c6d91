package matchers

import (
	"time"

	"github.com/RyanBlaney/scorealign/algorithms/stats"
	"github.com/RyanBlaney/scorealign/logging"
	"github.com/RyanBlaney/scorealign/symbolic"
)

// Alignment strategies for the per-window pass
const (
	AlignmentTypeDTW    = "dtw"    // fine DTW anchors per window
	AlignmentTypeLinear = "linear" // window endpoint anchors only
	AlignmentTypeGreedy = "greedy" // simple greedy, no anchors
)

// coarseNodeLength is the granularity hint passed to the initial coarse
// pass, distinct from the per-window fine setting.
const coarseNodeLength = 4.0

// Config enumerates the accepted matcher options.
type Config struct {
	AlignmentType             string  `json:"alignment_type"`               // "dtw", "linear" or "greedy"
	ScoreFineNodeLength       float64 `json:"score_fine_node_length"`       // fine DTW granularity hook
	STimeDiv                  int     `json:"s_time_div"`                   // score piano-roll subdivision
	PTimeDiv                  int     `json:"p_time_div"`                   // performance piano-roll subdivision
	SFuzziness                float64 `json:"sfuzziness"`                   // score window half-margin (beats)
	PFuzziness                float64 `json:"pfuzziness"`                   // performance window half-margin (seconds)
	WindowSize                int     `json:"window_size"`                  // anchors spanned per window
	PFuzzinessRelativeToTempo bool    `json:"pfuzziness_relative_to_tempo"` // scale PFuzziness by local tempo
	ShiftOnsets               bool    `json:"shift_onsets"`                 // allow per-pitch global shift
	CapCombinations           int     `json:"cap_combinations"`             // omission search budget
}

// DefaultConfig returns the standard matcher configuration.
func DefaultConfig() Config {
	return Config{
		AlignmentType:             AlignmentTypeDTW,
		ScoreFineNodeLength:       0.25,
		STimeDiv:                  16,
		PTimeDiv:                  16,
		SFuzziness:                4.0,
		PFuzziness:                4.0,
		WindowSize:                1,
		PFuzzinessRelativeToTempo: true,
		ShiftOnsets:               false,
		CapCombinations:           10000,
	}
}

// StageTiming records the wall-clock duration of one pipeline stage.
type StageTiming struct {
	Stage   string  `json:"stage"`
	Seconds float64 `json:"seconds"`
}

// AutomaticNoteMatcher orchestrates the hierarchical alignment pipeline:
// a coarse DTW pass over piano rolls yields time anchors, the anchors cut
// both sequences into fuzzy windows, each window is matched pitch-wise, and
// the per-window decisions are mended into one global alignment.
type AutomaticNoteMatcher struct {
	config Config

	noteMatcher         *stats.DynamicTimeWarping
	symbolicNoteMatcher *SequenceAugmentedGreedyMatcher
	greedyNoteMatcher   *SimplestGreedyMatcher

	timings []StageTiming
}

// NewAutomaticNoteMatcher creates a matcher with the default configuration.
func NewAutomaticNoteMatcher() *AutomaticNoteMatcher {
	return NewAutomaticNoteMatcherWithConfig(DefaultConfig())
}

// NewAutomaticNoteMatcherWithConfig creates a matcher with a custom
// configuration. Zero-valued fields are not defaulted; callers start from
// DefaultConfig and override.
func NewAutomaticNoteMatcherWithConfig(config Config) *AutomaticNoteMatcher {
	return &AutomaticNoteMatcher{
		config:              config,
		noteMatcher:         stats.NewDynamicTimeWarping(),
		symbolicNoteMatcher: NewSequenceAugmentedGreedyMatcher(),
		greedyNoteMatcher:   NewSimplestGreedyMatcher(),
	}
}

// Config returns the active configuration.
func (m *AutomaticNoteMatcher) Config() Config {
	return m.config
}

// SetConfig replaces the active configuration.
func (m *AutomaticNoteMatcher) SetConfig(config Config) {
	m.config = config
}

// SetSamplingSeed reseeds the omission-search sampling source.
func (m *AutomaticNoteMatcher) SetSamplingSeed(seed int64) {
	m.symbolicNoteMatcher = NewSequenceAugmentedGreedyMatcherWithSeed(seed)
}

// StageTimings returns per-stage wall-clock durations of the last Align
// call.
func (m *AutomaticNoteMatcher) StageTimings() []StageTiming {
	return m.timings
}

// Align computes the note-level alignment between a score and a
// performance.
func (m *AutomaticNoteMatcher) Align(scoreNotes, performanceNotes symbolic.NoteArray) symbolic.AlignmentVector {
	m.timings = m.timings[:0]
	stageStart := time.Now()

	record := func(stage string) {
		elapsed := time.Since(stageStart)
		m.timings = append(m.timings, StageTiming{Stage: stage, Seconds: elapsed.Seconds()})
		logging.Debug("alignment stage finished", logging.Fields{
			"stage":   stage,
			"seconds": elapsed.Seconds(),
		})
		stageStart = time.Now()
	}

	// Stage 1: coarse anchors over the whole piece
	coarseAnchors := AlignmentTimesFromDTW(
		scoreNotes, performanceNotes, m.noteMatcher,
		coarseNodeLength, m.config.STimeDiv, m.config.PTimeDiv,
	)
	record("coarse dtw")

	// Stage 2: cut both sequences into windows
	scoreArrays, performanceArrays := CutNoteArrays(
		performanceNotes, scoreNotes, coarseAnchors,
		m.config.SFuzziness, m.config.PFuzziness,
		m.config.WindowSize, m.config.PFuzzinessRelativeToTempo,
	)
	record("cutting")

	// Stage 3: match each window
	noteAlignments := make([]symbolic.AlignmentVector, 0, len(scoreArrays))

	for windowID := range scoreArrays {
		if m.config.AlignmentType == AlignmentTypeGreedy {
			noteAlignments = append(noteAlignments,
				m.greedyNoteMatcher.Align(scoreArrays[windowID], performanceArrays[windowID]))
			continue
		}

		windowAnchors := m.windowAnchors(windowID, scoreArrays, performanceArrays, coarseAnchors)

		noteAlignments = append(noteAlignments, m.symbolicNoteMatcher.Align(
			scoreArrays[windowID], performanceArrays[windowID],
			windowAnchors, m.config.ShiftOnsets, m.config.CapCombinations,
		))
	}
	record("windowed matching")

	// Stage 4: mend windows into a global alignment
	globalAlignment := MendNoteAlignments(noteAlignments, performanceNotes, scoreNotes, coarseAnchors)
	record("mending")

	logging.Info("alignment finished", logging.Fields{
		"score_notes":       len(scoreNotes),
		"performance_notes": len(performanceNotes),
		"windows":           len(scoreArrays),
		"records":           len(globalAlignment),
	})

	return globalAlignment
}

// windowAnchors computes the anchor set for one window. Under "dtw" a fine
// DTW pass runs on the window's sub-arrays, except that empty sub-arrays
// fall back to the window's surrounding coarse anchors; under "linear" the
// surrounding coarse anchors are used directly.
func (m *AutomaticNoteMatcher) windowAnchors(
	windowID int,
	scoreArrays, performanceArrays []symbolic.NoteArray,
	coarseAnchors TimeAlignmentVector,
) TimeAlignmentVector {
	surrounding := func() TimeAlignmentVector {
		if windowID+1 < len(coarseAnchors) {
			return TimeAlignmentVector{coarseAnchors[windowID], coarseAnchors[windowID+1]}
		}
		return nil
	}

	if m.config.AlignmentType != AlignmentTypeDTW {
		return surrounding()
	}

	if len(scoreArrays[windowID]) == 0 || len(performanceArrays[windowID]) == 0 {
		return surrounding()
	}

	return AlignmentTimesFromDTW(
		scoreArrays[windowID], performanceArrays[windowID], m.noteMatcher,
		m.config.ScoreFineNodeLength, m.config.STimeDiv, m.config.PTimeDiv,
	)
}

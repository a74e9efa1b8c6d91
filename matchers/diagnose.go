package matchers

import (
	"fmt"

	"github.com/RyanBlaney/scorealign/algorithms/stats"
	"github.com/RyanBlaney/scorealign/symbolic"
)

// OffsetEstimate is a coarse pre-alignment diagnostic: a global offset and
// tempo ratio guessed from the onset envelopes of both sequences. It never
// feeds the alignment pipeline; it exists for inspection tooling and sanity
// checks before a long run.
type OffsetEstimate struct {
	OffsetSec       float64 `json:"offset_sec"`       // estimated start offset of the performance
	TempoRatio      float64 `json:"tempo_ratio"`      // seconds per beat, from total spans
	PeakCorrelation float64 `json:"peak_correlation"` // normalized envelope correlation at the peak
}

// EstimateCoarseOffset cross-correlates the score and performance onset
// envelopes. The score is first stretched onto seconds by the overall tempo
// ratio, so both envelopes are rasterized in seconds and the peak lag
// approximates the start offset of the performance.
func EstimateCoarseOffset(scoreNotes, performanceNotes symbolic.NoteArray, timeDiv int) (*OffsetEstimate, error) {
	if len(scoreNotes) == 0 || len(performanceNotes) == 0 {
		return nil, fmt.Errorf("both note sequences must be non-empty")
	}

	scoreOnsets := scoreNotes.OnsetsBeat()
	perfOnsets := performanceNotes.OnsetsSec()

	scoreSpan := span(scoreOnsets)
	perfSpan := span(perfOnsets)

	tempoRatio := 1.0
	if scoreSpan > 0 {
		tempoRatio = perfSpan / scoreSpan
	}

	// Stretch the score envelope onto the performance clock before
	// correlating, so both envelopes share the seconds axis.
	stretched := make(symbolic.NoteArray, len(scoreNotes))
	for i, note := range scoreNotes {
		stretched[i] = symbolic.NewPerformanceNote(
			note.OnsetBeat*tempoRatio, note.DurationBeat*tempoRatio, note.Pitch, 0, note.ID)
	}

	scoreEnvelope := stretched.OnsetEnvelope(timeDiv)
	perfEnvelope := performanceNotes.OnsetEnvelope(timeDiv)

	corr, err := stats.NewCrossCorrelation(0).Compute(perfEnvelope, scoreEnvelope)
	if err != nil {
		return nil, fmt.Errorf("envelope correlation failed: %w", err)
	}

	return &OffsetEstimate{
		OffsetSec:       float64(corr.PeakLag) / float64(timeDiv),
		TempoRatio:      tempoRatio,
		PeakCorrelation: corr.PeakCorrelation,
	}, nil
}

func span(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return maxV - minV
}

package symbolic

import (
	"math"
)

// drumPitchThreshold marks pitches outside the melodic MIDI range that some
// producers use for percussion tracks.
const drumPitchThreshold = 128

// ComputePianoroll rasterizes the notes onto a [time_step][pitch_offset]
// grid with timeDiv cells per unit time. The time axis is beats when the
// first note carries any beat-domain timing, seconds otherwise. A cell is
// 1.0 while a note is sounding, 0.0 elsewhere. Pitches at or above 128 are
// skipped when removeDrums is set. An empty input yields an empty grid.
func (na NoteArray) ComputePianoroll(timeDiv int, removeDrums bool) [][]float64 {
	if len(na) == 0 || timeDiv <= 0 {
		return [][]float64{}
	}

	useBeatTime := na[0].OnsetBeat != 0 || na[0].DurationBeat != 0

	maxTime := 0.0
	minPitch := 127
	maxPitch := 0
	counted := 0

	for _, note := range na {
		if removeDrums && note.Pitch >= drumPitchThreshold {
			continue
		}

		onset, duration := note.OnsetBeat, note.DurationBeat
		if !useBeatTime {
			onset, duration = note.OnsetSec, note.DurationSec
		}

		maxTime = math.Max(maxTime, onset+duration)
		minPitch = min(minPitch, note.Pitch)
		maxPitch = max(maxPitch, note.Pitch)
		counted++
	}

	if counted == 0 {
		return [][]float64{}
	}

	numTimeSteps := int(math.Ceil(maxTime*float64(timeDiv))) + 1
	numPitches := maxPitch - minPitch + 1

	pianoroll := make([][]float64, numTimeSteps)
	for t := range pianoroll {
		pianoroll[t] = make([]float64, numPitches)
	}

	for _, note := range na {
		if removeDrums && note.Pitch >= drumPitchThreshold {
			continue
		}

		onset, duration := note.OnsetBeat, note.DurationBeat
		if !useBeatTime {
			onset, duration = note.OnsetSec, note.DurationSec
		}

		startStep := int(onset * float64(timeDiv))
		endStep := int((onset + duration) * float64(timeDiv))
		pitchIdx := note.Pitch - minPitch

		for t := startStep; t <= endStep && t < numTimeSteps; t++ {
			if t < 0 {
				continue
			}
			pianoroll[t][pitchIdx] = 1.0
		}
	}

	return pianoroll
}

// OnsetEnvelope counts note onsets per time cell at timeDiv cells per unit
// time, on the same axis selection as ComputePianoroll. Used for coarse
// offset diagnostics, not for alignment itself.
func (na NoteArray) OnsetEnvelope(timeDiv int) []float64 {
	if len(na) == 0 || timeDiv <= 0 {
		return []float64{}
	}

	useBeatTime := na[0].OnsetBeat != 0 || na[0].DurationBeat != 0

	maxOnset := 0.0
	for _, note := range na {
		onset := note.OnsetBeat
		if !useBeatTime {
			onset = note.OnsetSec
		}
		maxOnset = math.Max(maxOnset, onset)
	}

	envelope := make([]float64, int(maxOnset*float64(timeDiv))+1)
	for _, note := range na {
		onset := note.OnsetBeat
		if !useBeatTime {
			onset = note.OnsetSec
		}
		step := int(onset * float64(timeDiv))
		if step >= 0 && step < len(envelope) {
			envelope[step]++
		}
	}

	return envelope
}

package symbolic

import (
	"sort"
)

// Note is a single note record shared by the score and performance domains.
// WHY: score and performance notes carry different timing fields (beats vs.
// seconds) but flow through the same matching pipeline, so a single record
// with zero-valued unused fields keeps the windowing and matching code
// uniform.
type Note struct {
	// Score fields
	OnsetBeat       float64 `json:"onset_beat"`
	DurationBeat    float64 `json:"duration_beat"`
	OnsetQuarter    float64 `json:"onset_quarter,omitempty"`
	DurationQuarter float64 `json:"duration_quarter,omitempty"`
	OnsetDiv        int     `json:"onset_div,omitempty"`
	DurationDiv     int     `json:"duration_div,omitempty"`

	// Performance fields
	OnsetSec     float64 `json:"onset_sec"`
	DurationSec  float64 `json:"duration_sec"`
	OnsetTick    int     `json:"onset_tick,omitempty"`
	DurationTick int     `json:"duration_tick,omitempty"`
	Velocity     int     `json:"velocity"`
	Track        int     `json:"track,omitempty"`
	Channel      int     `json:"channel,omitempty"`

	// Common fields
	Pitch  int    `json:"pitch"` // MIDI pitch, 0-127
	Voice  int    `json:"voice,omitempty"`
	ID     string `json:"id"` // unique within its sequence
	DivsPQ int    `json:"divs_pq,omitempty"`
}

// NewScoreNote creates a note on the metric timeline.
func NewScoreNote(onsetBeat, durationBeat float64, pitch int, id string) Note {
	return Note{
		OnsetBeat:    onsetBeat,
		DurationBeat: durationBeat,
		Pitch:        pitch,
		ID:           id,
	}
}

// NewPerformanceNote creates a note on the wall-clock timeline.
func NewPerformanceNote(onsetSec, durationSec float64, pitch, velocity int, id string) Note {
	return Note{
		OnsetSec:    onsetSec,
		DurationSec: durationSec,
		Pitch:       pitch,
		Velocity:    velocity,
		ID:          id,
	}
}

// NoteArray is an ordered sequence of notes. No ordering invariant is
// required on construction; stages that depend on order re-sort internally.
type NoteArray []Note

// FilterByPitch returns the notes with the given MIDI pitch, preserving order.
func (na NoteArray) FilterByPitch(pitch int) NoteArray {
	var result NoteArray
	for _, note := range na {
		if note.Pitch == pitch {
			result = append(result, note)
		}
	}
	return result
}

// UniquePitches returns the distinct pitches present, in ascending order.
func (na NoteArray) UniquePitches() []int {
	seen := make(map[int]struct{})
	for _, note := range na {
		seen[note.Pitch] = struct{}{}
	}

	pitches := make([]int, 0, len(seen))
	for pitch := range seen {
		pitches = append(pitches, pitch)
	}
	sort.Ints(pitches)

	return pitches
}

// OnsetsBeat returns the score-side onset times in input order.
func (na NoteArray) OnsetsBeat() []float64 {
	onsets := make([]float64, len(na))
	for i, note := range na {
		onsets[i] = note.OnsetBeat
	}
	return onsets
}

// OnsetsSec returns the performance-side onset times in input order.
func (na NoteArray) OnsetsSec() []float64 {
	onsets := make([]float64, len(na))
	for i, note := range na {
		onsets[i] = note.OnsetSec
	}
	return onsets
}

// IDs returns the note identifiers in input order.
func (na NoteArray) IDs() []string {
	ids := make([]string, len(na))
	for i, note := range na {
		ids[i] = note.ID
	}
	return ids
}

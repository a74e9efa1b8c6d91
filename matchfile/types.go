package matchfile

import (
	"github.com/RyanBlaney/scorealign/symbolic"
)

// Info holds the header metadata of a match file.
type Info struct {
	Version        float64 `json:"version"`
	MidiClockUnits int     `json:"midi_clock_units"` // ticks per quarter
	MidiClockRate  int     `json:"midi_clock_rate"`  // microseconds per quarter
	KeySignature   string  `json:"key_signature,omitempty"`
	TimeSignature  string  `json:"time_signature,omitempty"`
}

// SustainEvent is one sustain-pedal controller change.
type SustainEvent struct {
	Time  int `json:"time"` // MIDI ticks
	Value int `json:"value"`
}

// File is a fully parsed match file: both note sequences plus the
// ground-truth alignment the file encodes.
type File struct {
	Info        Info                     `json:"info"`
	Sustain     []SustainEvent           `json:"sustain,omitempty"`
	Score       symbolic.NoteArray       `json:"score"`
	Performance symbolic.NoteArray       `json:"performance"`
	GroundTruth symbolic.AlignmentVector `json:"ground_truth"`
}

// lineKind classifies a parsed match line.
type lineKind int

const (
	lineMatch lineKind = iota
	lineDeletion
	lineInsertion
)

// scoreNote is the raw score side of a match line.
type scoreNote struct {
	id         string
	noteName   string
	accidental string
	octave     int
	onsetBeat  float64
	offsetBeat float64
}

// performanceNote is the raw performance side of a match line.
type performanceNote struct {
	id           string
	noteName     string
	accidental   string
	octave       int
	onsetTick    int
	offsetTick   int
	soundOffTick int
	velocity     int
}

// matchLine is one parsed body line before unit conversion.
type matchLine struct {
	kind  lineKind
	score *scoreNote
	perf  *performanceNote
}

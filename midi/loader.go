// Package midi turns Standard MIDI Files into performance note sequences
// for the alignment core. Tick timestamps are converted to seconds through
// the file's tempo map.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/RyanBlaney/scorealign/logging"
	"github.com/RyanBlaney/scorealign/symbolic"
)

// ReadFile reads and parses a Standard MIDI File.
func ReadFile(path string) (s *smf.SMF, e error) {
	// The SMF reader panics on some malformed files; turn that into an error
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}

	parsed, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}

	return parsed, nil
}

// openNote tracks a sounding key awaiting its note-end.
type openNote struct {
	onsetSec float64
	velocity int
	track    int
}

// noteKey identifies a sounding key per channel.
type noteKey struct {
	channel uint8
	key     uint8
}

// LoadPerformance extracts a performance NoteArray from a MIDI file. Notes
// are sorted by onset and given sequential ids "p0", "p1", ...
func LoadPerformance(path string) (symbolic.NoteArray, error) {
	s, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return notesFromSMF(s), nil
}

// notesFromSMF walks all tracks pairing note starts with note ends, using
// the tempo map for tick-to-seconds conversion.
func notesFromSMF(s *smf.SMF) symbolic.NoteArray {
	var notes symbolic.NoteArray

	for trackNo, track := range s.Tracks {
		open := make(map[noteKey][]openNote)
		var absTicks int64

		for _, event := range track {
			absTicks += int64(event.Delta)
			absSec := float64(s.TimeAt(absTicks)) / 1e6

			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				open[noteKey{channel, key}] = append(open[noteKey{channel, key}], openNote{
					onsetSec: absSec,
					velocity: int(velocity),
					track:    trackNo,
				})
			case event.Message.GetNoteOff(&channel, &key, &velocity),
				event.Message.GetNoteOn(&channel, &key, &velocity):
				// Note-off, or the running-status note-on with velocity 0
				pending := open[noteKey{channel, key}]
				if len(pending) == 0 {
					continue
				}

				// First-on first-off for overlapping same-key notes
				started := pending[0]
				open[noteKey{channel, key}] = pending[1:]

				note := symbolic.NewPerformanceNote(
					started.onsetSec, absSec-started.onsetSec, int(key), started.velocity, "")
				note.Channel = int(channel)
				note.Track = started.track
				notes = append(notes, note)
			}
		}

		for k, pending := range open {
			if len(pending) > 0 {
				logging.Warn("unterminated notes at end of track", logging.Fields{
					"track": trackNo,
					"key":   k.key,
					"count": len(pending),
				})
			}
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].OnsetSec != notes[j].OnsetSec {
			return notes[i].OnsetSec < notes[j].OnsetSec
		}
		return notes[i].Pitch < notes[j].Pitch
	})

	for i := range notes {
		notes[i].ID = fmt.Sprintf("p%d", i)
	}

	return notes
}

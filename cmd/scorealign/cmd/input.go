package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/scorealign/matchfile"
	"github.com/RyanBlaney/scorealign/midi"
	"github.com/RyanBlaney/scorealign/symbolic"
)

// loadScore reads the score side of a match file.
func loadScore(path string) (symbolic.NoteArray, error) {
	parsed, err := matchfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if len(parsed.Score) == 0 {
		return nil, fmt.Errorf("%s contains no score notes", path)
	}
	return parsed.Score, nil
}

// loadPerformance reads performance notes from a MIDI or match file,
// dispatching on the extension.
func loadPerformance(path string) (symbolic.NoteArray, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi", ".smf":
		return midi.LoadPerformance(path)
	default:
		parsed, err := matchfile.ParseFile(path)
		if err != nil {
			return nil, err
		}
		if len(parsed.Performance) == 0 {
			return nil, fmt.Errorf("%s contains no performance notes", path)
		}
		return parsed.Performance, nil
	}
}

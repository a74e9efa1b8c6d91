// Package matchfile reads the Prolog-style match format that pairs a score
// with an annotated performance. A parsed file delivers the two note
// sequences the alignment core consumes plus the ground-truth alignment for
// evaluation. Tick-to-seconds conversion and pitch spelling happen here;
// score beat times are read from the onset and offset beat columns, and the
// measure:beat position is not interpreted. The core never sees match
// syntax.
package matchfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/RyanBlaney/scorealign/logging"
	"github.com/RyanBlaney/scorealign/symbolic"
)

var (
	infoPattern    = regexp.MustCompile(`^info\(([^,]+),(.*)\)$`)
	sustainPattern = regexp.MustCompile(`^sustain\((\d+),(\d+)\)$`)
)

// ParseFile parses a match file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open match file: %w", err)
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return parsed, nil
}

// Parse parses match-file text. Lines that fail to parse are logged and
// skipped rather than aborting the whole file.
func Parse(r io.Reader) (*File, error) {
	file := &File{
		Info: Info{MidiClockUnits: 480, MidiClockRate: 500000},
	}

	var lines []matchLine

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		line = strings.TrimSuffix(line, ".")

		switch {
		case strings.HasPrefix(line, "info("):
			file.parseInfoLine(line)
		case strings.HasPrefix(line, "sustain("):
			if m := sustainPattern.FindStringSubmatch(line); m != nil {
				time, _ := strconv.Atoi(m[1])
				value, _ := strconv.Atoi(m[2])
				file.Sustain = append(file.Sustain, SustainEvent{Time: time, Value: value})
			}
		case strings.HasPrefix(line, "snote("), strings.HasPrefix(line, "insertion-note("):
			parsed, err := parseMatchLine(line)
			if err != nil {
				logging.Warn("skipping unparseable match line", logging.Fields{
					"line":  line,
					"error": err.Error(),
				})
				continue
			}
			lines = append(lines, parsed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading match file: %w", err)
	}

	file.build(lines)
	return file, nil
}

// parseInfoLine extracts the handful of header keys the converter needs.
func (f *File) parseInfoLine(line string) {
	m := infoPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}

	key := strings.TrimSpace(m[1])
	value := strings.TrimSpace(m[2])

	switch key {
	case "matchFileVersion":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			f.Info.Version = v
		}
	case "midiClockUnits":
		if v, err := strconv.Atoi(value); err == nil && v > 0 {
			f.Info.MidiClockUnits = v
		}
	case "midiClockRate":
		if v, err := strconv.Atoi(value); err == nil && v > 0 {
			f.Info.MidiClockRate = v
		}
	case "keySignature":
		f.Info.KeySignature = strings.Trim(value, "[]")
	case "timeSignature":
		f.Info.TimeSignature = strings.Trim(value, "[]")
	}
}

// parseMatchLine dispatches on the three body line shapes.
func parseMatchLine(line string) (matchLine, error) {
	if strings.HasPrefix(line, "insertion-note(") {
		perf, err := parsePerformanceNote(line[len("insertion-"):])
		if err != nil {
			return matchLine{}, err
		}
		return matchLine{kind: lineInsertion, perf: perf}, nil
	}

	if idx := strings.Index(line, ")-note("); idx >= 0 {
		score, err := parseScoreNote(line[:idx+1])
		if err != nil {
			return matchLine{}, err
		}
		perf, err := parsePerformanceNote(line[idx+2:])
		if err != nil {
			return matchLine{}, err
		}
		return matchLine{kind: lineMatch, score: score, perf: perf}, nil
	}

	if strings.HasPrefix(line, "snote(") {
		end := strings.LastIndex(line, ")")
		if end < 0 {
			return matchLine{}, fmt.Errorf("unterminated snote: %q", line)
		}
		score, err := parseScoreNote(line[:end+1])
		if err != nil {
			return matchLine{}, err
		}
		return matchLine{kind: lineDeletion, score: score}, nil
	}

	return matchLine{}, fmt.Errorf("unrecognized match line: %q", line)
}

// parseScoreNote parses snote(id,[name,accidental],octave,measure:beat,
// offset,duration,onset_beat,offset_beat,[attributes]).
func parseScoreNote(s string) (*scoreNote, error) {
	parts, err := termArguments(s, "snote(")
	if err != nil {
		return nil, err
	}
	if len(parts) < 8 {
		return nil, fmt.Errorf("snote has %d arguments, want at least 8", len(parts))
	}

	note := &scoreNote{id: parts[0]}
	note.noteName, note.accidental = splitPitchSpelling(parts[1])

	if note.octave, err = strconv.Atoi(parts[2]); err != nil {
		return nil, fmt.Errorf("bad octave %q: %w", parts[2], err)
	}
	if note.onsetBeat, err = strconv.ParseFloat(parts[6], 64); err != nil {
		return nil, fmt.Errorf("bad onset %q: %w", parts[6], err)
	}
	if note.offsetBeat, err = strconv.ParseFloat(parts[7], 64); err != nil {
		return nil, fmt.Errorf("bad offset %q: %w", parts[7], err)
	}

	return note, nil
}

// parsePerformanceNote parses note(id,[name,accidental],octave,onset_tick,
// offset_tick,sound_off_tick,velocity).
func parsePerformanceNote(s string) (*performanceNote, error) {
	parts, err := termArguments(s, "note(")
	if err != nil {
		return nil, err
	}
	if len(parts) < 7 {
		return nil, fmt.Errorf("note has %d arguments, want at least 7", len(parts))
	}

	note := &performanceNote{id: parts[0]}
	note.noteName, note.accidental = splitPitchSpelling(parts[1])

	fields := []struct {
		dst *int
		src string
	}{
		{&note.octave, parts[2]},
		{&note.onsetTick, parts[3]},
		{&note.offsetTick, parts[4]},
		{&note.soundOffTick, parts[5]},
		{&note.velocity, parts[6]},
	}
	for _, f := range fields {
		if *f.dst, err = strconv.Atoi(f.src); err != nil {
			return nil, fmt.Errorf("bad note argument %q: %w", f.src, err)
		}
	}

	return note, nil
}

// termArguments strips prefix( and the trailing ) and splits the arguments
// on commas outside brackets.
func termArguments(s, prefix string) ([]string, error) {
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("expected %s term, got %q", strings.TrimSuffix(prefix, "("), s)
	}
	end := strings.LastIndex(s, ")")
	if end < 0 {
		return nil, fmt.Errorf("unterminated term: %q", s)
	}

	content := s[len(prefix):end]

	var parts []string
	var current strings.Builder
	depth := 0

	for _, c := range content {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
				continue
			}
		}
		current.WriteRune(c)
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}

	return parts, nil
}

// splitPitchSpelling splits a [C,n] pitch spelling into name and accidental.
func splitPitchSpelling(s string) (string, string) {
	s = strings.Trim(s, "[]")
	name, accidental, found := strings.Cut(s, ",")
	if !found {
		return s, "n"
	}
	return strings.TrimSpace(name), strings.TrimSpace(accidental)
}

// build converts raw match lines into the note arrays and ground-truth
// alignment, applying tick-to-seconds conversion from the header clock.
func (f *File) build(lines []matchLine) {
	secondsPerTick := float64(f.Info.MidiClockRate) / float64(f.Info.MidiClockUnits) / 1e6

	for _, line := range lines {
		if line.score != nil {
			pitch, err := SpelledPitchToMIDI(line.score.noteName, line.score.accidental, line.score.octave)
			if err != nil {
				logging.Warn("skipping score note with unknown pitch spelling", logging.Fields{
					"id": line.score.id, "name": line.score.noteName,
				})
				continue
			}
			f.Score = append(f.Score, symbolic.NewScoreNote(
				line.score.onsetBeat,
				line.score.offsetBeat-line.score.onsetBeat,
				pitch,
				line.score.id,
			))
		}

		if line.perf != nil {
			pitch, err := SpelledPitchToMIDI(line.perf.noteName, line.perf.accidental, line.perf.octave)
			if err != nil {
				logging.Warn("skipping performance note with unknown pitch spelling", logging.Fields{
					"id": line.perf.id, "name": line.perf.noteName,
				})
				continue
			}
			note := symbolic.NewPerformanceNote(
				float64(line.perf.onsetTick)*secondsPerTick,
				float64(line.perf.offsetTick-line.perf.onsetTick)*secondsPerTick,
				pitch,
				line.perf.velocity,
				line.perf.id,
			)
			note.OnsetTick = line.perf.onsetTick
			note.DurationTick = line.perf.offsetTick - line.perf.onsetTick
			f.Performance = append(f.Performance, note)
		}

		switch line.kind {
		case lineMatch:
			f.GroundTruth = append(f.GroundTruth, symbolic.NewMatch(line.score.id, line.perf.id))
		case lineDeletion:
			f.GroundTruth = append(f.GroundTruth, symbolic.NewDeletion(line.score.id))
		case lineInsertion:
			f.GroundTruth = append(f.GroundTruth, symbolic.NewInsertion(line.perf.id))
		}
	}
}

// semitones from C for the seven note letters
var noteSemitones = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// SpelledPitchToMIDI converts a spelled pitch (name, accidental, octave) to
// a MIDI pitch number with C4 = 60. Accidentals are "#", "b" or "n".
func SpelledPitchToMIDI(noteName, accidental string, octave int) (int, error) {
	semitone, ok := noteSemitones[strings.ToUpper(noteName)]
	if !ok {
		return 0, fmt.Errorf("unknown note name: %q", noteName)
	}

	switch accidental {
	case "#":
		semitone++
	case "b":
		semitone--
	}

	return (octave+1)*12 + semitone, nil
}

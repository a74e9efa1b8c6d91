package symbolic

import (
	"encoding/json"
	"fmt"
)

// Label classifies a note association.
type Label int

const (
	// LabelMatch pairs a score note with a performance note
	LabelMatch Label = iota

	// LabelInsertion marks a performance note with no score counterpart
	LabelInsertion

	// LabelDeletion marks a score note that was not performed
	LabelDeletion
)

func (l Label) String() string {
	switch l {
	case LabelMatch:
		return "match"
	case LabelInsertion:
		return "insertion"
	case LabelDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the label as its lowercase name.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a lowercase label name.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "match":
		*l = LabelMatch
	case "insertion":
		*l = LabelInsertion
	case "deletion":
		*l = LabelDeletion
	default:
		return fmt.Errorf("unknown alignment label: %q", s)
	}

	return nil
}

// Alignment is one labeled association in a note alignment.
// A Match carries both ids, a Deletion only the score id, an Insertion only
// the performance id.
type Alignment struct {
	Label         Label  `json:"label"`
	ScoreID       string `json:"score_id"`
	PerformanceID string `json:"performance_id"`
}

// NewMatch creates a score-to-performance association.
func NewMatch(scoreID, performanceID string) Alignment {
	return Alignment{Label: LabelMatch, ScoreID: scoreID, PerformanceID: performanceID}
}

// NewDeletion marks a score note as not performed.
func NewDeletion(scoreID string) Alignment {
	return Alignment{Label: LabelDeletion, ScoreID: scoreID}
}

// NewInsertion marks a performance note with no score counterpart.
func NewInsertion(performanceID string) Alignment {
	return Alignment{Label: LabelInsertion, PerformanceID: performanceID}
}

// AlignmentVector is an ordered list of alignment records.
type AlignmentVector []Alignment

package matchers

import (
	"slices"

	"github.com/RyanBlaney/scorealign/symbolic"
)

// FScoreResult contains set-wise precision/recall metrics over labeled
// alignment triples.
type FScoreResult struct {
	Precision    float64 `json:"precision"`
	Recall       float64 `json:"recall"`
	FScore       float64 `json:"f_score"`
	NPredicted   int     `json:"n_predicted"`    // predicted records after filtering
	NGroundTruth int     `json:"n_ground_truth"` // ground-truth records after filtering
}

// FScoreAlignments filters both alignments to the given labels and counts a
// predicted record as correct when an identical triple exists in the
// filtered ground truth. Empty prediction and ground truth score a perfect
// 1; a one-sided empty input scores 0 for the undefined ratio.
func FScoreAlignments(prediction, groundTruth symbolic.AlignmentVector, labels []symbolic.Label) FScoreResult {
	predFiltered := filterByLabels(prediction, labels)
	gtFiltered := filterByLabels(groundTruth, labels)

	nCorrect := 0
	for _, pred := range predFiltered {
		if slices.Contains(gtFiltered, pred) {
			nCorrect++
		}
	}

	result := FScoreResult{
		NPredicted:   len(predFiltered),
		NGroundTruth: len(gtFiltered),
	}

	if len(predFiltered) == 0 && len(gtFiltered) == 0 {
		result.Precision = 1.0
		result.Recall = 1.0
		result.FScore = 1.0
		return result
	}

	if len(predFiltered) > 0 {
		result.Precision = float64(nCorrect) / float64(len(predFiltered))
	}
	if len(gtFiltered) > 0 {
		result.Recall = float64(nCorrect) / float64(len(gtFiltered))
	}
	if result.Precision+result.Recall > 0 {
		result.FScore = 2.0 * result.Precision * result.Recall / (result.Precision + result.Recall)
	}

	return result
}

// FScoreMatches evaluates the Match label only.
func FScoreMatches(prediction, groundTruth symbolic.AlignmentVector) FScoreResult {
	return FScoreAlignments(prediction, groundTruth, []symbolic.Label{symbolic.LabelMatch})
}

func filterByLabels(alignment symbolic.AlignmentVector, labels []symbolic.Label) symbolic.AlignmentVector {
	var filtered symbolic.AlignmentVector
	for _, align := range alignment {
		if slices.Contains(labels, align.Label) {
			filtered = append(filtered, align)
		}
	}
	return filtered
}

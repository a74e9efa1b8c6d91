package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/scorealign/matchers"
	"github.com/RyanBlaney/scorealign/matchfile"
	"github.com/RyanBlaney/scorealign/symbolic"
)

var evaluateOutput string

// EvaluateReport is the JSON document the evaluate command emits.
type EvaluateReport struct {
	Prediction  string                `json:"prediction"`
	GroundTruth string                `json:"ground_truth"`
	Matches     matchers.FScoreResult `json:"matches"`
	All         matchers.FScoreResult `json:"all"`
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <prediction.json> <groundtruth.match>",
	Short: "Score a predicted alignment against a ground truth",
	Long: `Compares an alignment report produced by the align command against the
ground-truth alignment of a match file and prints precision, recall and
f-score.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prediction, err := readPrediction(args[0])
		if err != nil {
			return err
		}

		parsed, err := matchfile.ParseFile(args[1])
		if err != nil {
			return err
		}
		if len(parsed.GroundTruth) == 0 {
			return fmt.Errorf("%s contains no ground-truth alignment", args[1])
		}

		allLabels := []symbolic.Label{symbolic.LabelMatch, symbolic.LabelDeletion, symbolic.LabelInsertion}

		report := EvaluateReport{
			Prediction:  args[0],
			GroundTruth: args[1],
			Matches:     matchers.FScoreMatches(prediction, parsed.GroundTruth),
			All:         matchers.FScoreAlignments(prediction, parsed.GroundTruth, allLabels),
		}

		return writeJSON(report, evaluateOutput)
	},
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(evaluateCmd)
}

// readPrediction accepts either an align report or a bare alignment array.
func readPrediction(path string) (symbolic.AlignmentVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prediction: %w", err)
	}

	var report AlignReport
	if err := json.Unmarshal(data, &report); err == nil && len(report.Alignment) > 0 {
		return report.Alignment, nil
	}

	var alignment symbolic.AlignmentVector
	if err := json.Unmarshal(data, &alignment); err != nil {
		return nil, fmt.Errorf("parsing prediction %s: %w", path, err)
	}
	return alignment, nil
}

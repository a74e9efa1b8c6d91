package cmd

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/scorealign/matchers"
	"github.com/RyanBlaney/scorealign/symbolic"
)

var (
	alignOutput   string
	alignType     string
	alignShift    bool
	alignCap      int
	alignSFuzz    float64
	alignPFuzz    float64
	alignWindow   int
	alignTimeDiv  int
	alignTimings  bool
	alignAbsPFuzz bool
)

// AlignReport is the JSON document the align command emits.
type AlignReport struct {
	ID          string                   `json:"id"`
	Score       string                   `json:"score"`
	Performance string                   `json:"performance"`
	Config      matchers.Config          `json:"config"`
	Alignment   symbolic.AlignmentVector `json:"alignment"`
	Timings     []matchers.StageTiming   `json:"timings,omitempty"`
}

var alignCmd = &cobra.Command{
	Use:   "align <score.match> <performance.{match,mid}>",
	Short: "Align a score with a performance",
	Long: `Aligns the score notes of a match file with a performance read from a
match or MIDI file and prints the note-level alignment as JSON.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scoreNotes, err := loadScore(args[0])
		if err != nil {
			return err
		}
		perfNotes, err := loadPerformance(args[1])
		if err != nil {
			return err
		}

		config := matchers.DefaultConfig()
		config.AlignmentType = alignType
		config.ShiftOnsets = alignShift
		config.CapCombinations = alignCap
		config.SFuzziness = alignSFuzz
		config.PFuzziness = alignPFuzz
		config.WindowSize = alignWindow
		config.STimeDiv = alignTimeDiv
		config.PTimeDiv = alignTimeDiv
		config.PFuzzinessRelativeToTempo = !alignAbsPFuzz

		matcher := matchers.NewAutomaticNoteMatcherWithConfig(config)
		alignment := matcher.Align(scoreNotes, perfNotes)

		report := AlignReport{
			ID:          uuid.NewString(),
			Score:       args[0],
			Performance: args[1],
			Config:      config,
			Alignment:   alignment,
		}
		if alignTimings {
			report.Timings = matcher.StageTimings()
		}

		return writeJSON(report, alignOutput)
	},
}

func init() {
	alignCmd.Flags().StringVarP(&alignOutput, "output", "o", "", "write the report to a file instead of stdout")
	alignCmd.Flags().StringVar(&alignType, "alignment-type", matchers.AlignmentTypeDTW, "per-window strategy: dtw, linear or greedy")
	alignCmd.Flags().BoolVar(&alignShift, "shift-onsets", false, "allow a per-pitch global onset shift")
	alignCmd.Flags().IntVar(&alignCap, "cap-combinations", 10000, "combinatorial budget per pitch")
	alignCmd.Flags().Float64Var(&alignSFuzz, "sfuzziness", 4.0, "score window margin in beats")
	alignCmd.Flags().Float64Var(&alignPFuzz, "pfuzziness", 4.0, "performance window margin in seconds")
	alignCmd.Flags().IntVar(&alignWindow, "window-size", 1, "anchors spanned per window")
	alignCmd.Flags().IntVar(&alignTimeDiv, "time-div", 16, "piano roll cells per beat/second")
	alignCmd.Flags().BoolVar(&alignTimings, "timings", false, "include per-stage wall-clock timings")
	alignCmd.Flags().BoolVar(&alignAbsPFuzz, "absolute-pfuzziness", false, "do not scale pfuzziness by the local tempo")
	rootCmd.AddCommand(alignCmd)
}

// writeJSON renders v with indentation to a file or stdout.
func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

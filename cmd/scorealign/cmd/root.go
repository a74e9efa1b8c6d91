package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/scorealign/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "scorealign",
	Short: "Symbolic score-to-performance note alignment",
	Long: `scorealign aligns a musical score with a recorded performance at the
note level, labeling every note as matched, deleted or inserted.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLevel(logging.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

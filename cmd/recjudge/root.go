package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recjudge",
		Short: "recjudge - reward aggregation for LLM movie recommendations",
		Long: `recjudge turns the outputs of LLM judges into a single bounded reward.

Each recommendation is graded by three judges (subjective satisfaction, logical
consistency and hallucination risk). recjudge extracts the numeric metrics from
their loosely structured outputs, reduces each judge to a 1-5 stage score and
blends the stages into a reward that can be compared with real user ratings.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newWeightsCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "readingrally",
	Short: "Read-aloud practice with progress and rewards",
	Long: `ReadingRally is a terminal app where young readers read a passage aloud,
get a pace, accuracy and fluency score, and earn points, badges and levels.

Scoring needs an LLM API key. Set one of OPENAI_API_KEY, ANTHROPIC_API_KEY,
GEMINI_API_KEY or OPENROUTER_API_KEY (or READINGRALLY_LLM_PROVIDER=mock to try
it offline). Transcription uses OpenAI Whisper.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the CLI. An interrupt cancels the command's context so a
// headless recording can stop cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides the db setting)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(rewardsCmd)
	rootCmd.AddCommand(passagesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

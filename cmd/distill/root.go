package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyforge/distill/version"
)

var (
	cfgFile    string
	outputRoot string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "distill",
	Short: "Document distillation pipeline with LLM-powered summarization",
	Long: `Distill transforms source documents into consolidated study notes and
flashcard decks using interchangeable LLM providers.

The pipeline per document:
  - Chunking into ordered sections (local)
  - Per-section summarization
  - Consolidation of summaries into one set of notes
  - Materialization of notes into a flashcard deck

Progress is checkpointed after every stage, so an interrupted run
resumes without re-paying for completed provider calls.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.distill/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputRoot, "output", "", "output root directory (default: ~/.distill)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

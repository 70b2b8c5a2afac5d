package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyforge/distill/internal/pipeline"
)

var cleanAll bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete saved run state (and optionally all artifacts)",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveOutputDir()
		if err != nil {
			return err
		}

		store := pipeline.NewFileStateStore(dir.StatePath(), slog.Default())
		if store.Exists() {
			if err := store.Delete(); err != nil {
				return err
			}
			fmt.Printf("Deleted run state %s\n", store.Path())
		} else {
			fmt.Println("No run state to delete.")
		}

		if cleanAll {
			itemsDir := dir.ItemDir("")
			if err := os.RemoveAll(itemsDir); err != nil {
				return fmt.Errorf("failed to remove artifacts: %w", err)
			}
			fmt.Printf("Deleted artifacts under %s\n", itemsDir)
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "also delete per-item artifacts")
}

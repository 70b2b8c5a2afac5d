package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/studyforge/distill/internal/config"
	"github.com/studyforge/distill/internal/home"
	"github.com/studyforge/distill/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of an interrupted run",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveOutputDir()
		if err != nil {
			return err
		}

		store := pipeline.NewFileStateStore(dir.StatePath(), slog.Default())
		if !store.Exists() {
			fmt.Println("No interrupted run. Clean state.")
			return nil
		}

		run, err := store.Load()
		if err != nil {
			return err
		}
		if run == nil {
			fmt.Println("Run state file is unreadable; treat as clean state.")
			return nil
		}

		type itemStatus struct {
			Stages map[pipeline.Stage]pipeline.StageStatus `yaml:"stages"`
			Error  string                                  `yaml:"error,omitempty"`
		}
		out := struct {
			RunID     string                `yaml:"run_id"`
			CreatedAt string                `yaml:"created_at"`
			Status    pipeline.RunStatus    `yaml:"status"`
			Items     map[string]itemStatus `yaml:"items"`
		}{
			RunID:     run.RunID,
			CreatedAt: run.CreatedAt.Format("2006-01-02 15:04:05 MST"),
			Status:    run.OverallStatus,
			Items:     make(map[string]itemStatus, len(run.Items)),
		}
		for id, item := range run.Items {
			out.Items[id] = itemStatus{Stages: item.Stages, Error: item.ErrorMessage}
		}

		data, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

// resolveOutputDir resolves the output root from flags and config.
func resolveOutputDir() (*home.Dir, error) {
	root := outputRoot
	if root == "" {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return nil, err
		}
		root = cm.Get().Output.Root
	}
	return home.New(root)
}

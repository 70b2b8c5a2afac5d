package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyforge/distill/internal/batch"
	"github.com/studyforge/distill/internal/config"
	"github.com/studyforge/distill/internal/home"
	"github.com/studyforge/distill/internal/metrics"
	"github.com/studyforge/distill/internal/pipeline"
	"github.com/studyforge/distill/internal/retry"
)

var runFresh bool

var runCmd = &cobra.Command{
	Use:   "run <input-dir>",
	Short: "Process every document in a directory through the pipeline",
	Long: `Run discovers input documents (.txt, .md) in the given directory and
drives each through the full pipeline. If a previous run was interrupted,
completed stages are skipped; pass --fresh to discard saved progress.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		root := outputRoot
		if root == "" {
			root = cfg.Output.Root
		}
		dir, err := home.New(root)
		if err != nil {
			return err
		}
		if err := dir.EnsureExists(); err != nil {
			return err
		}

		store := pipeline.NewFileStateStore(dir.StatePath(), logger)
		if runFresh && store.Exists() {
			logger.Info("discarding saved run state", "path", store.Path())
			if err := store.Delete(); err != nil {
				return err
			}
		}

		registry, err := buildRegistry(cfg, logger)
		if err != nil {
			return err
		}

		// Pick up key rotations and rate limit changes mid-run.
		prevCfg := cfg
		cm.OnChange(func(updated *config.Config) {
			prevCfg = refreshRegistry(registry, prevCfg, updated, logger)
		})
		cm.WatchConfig()

		policy := retry.NewPolicy(cfg.Retry.MaxRetries, cfg.Retry.InitialDelay())
		policy.Logger = logger
		recorder := metrics.NewRecorder()

		runner, err := pipeline.NewRunner(pipeline.RunnerConfig{
			Home:     dir,
			Store:    store,
			Registry: registry,
			Retry:    policy,
			Recorder: recorder,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		run, resumed, err := runner.LoadOrCreateRun()
		if err != nil {
			return err
		}
		if resumed {
			fmt.Printf("Resuming interrupted run from %s\n", store.Path())
		}

		items, err := batch.DiscoverItems(args[0])
		if err != nil {
			return fmt.Errorf("failed to list input directory: %w", err)
		}
		if len(items) == 0 {
			fmt.Printf("No input documents found in %s\n", args[0])
		}

		result := batch.NewRunner(runner, logger).Run(cmd.Context(), run, items)

		if err := runner.FinalizeRun(run); err != nil {
			logger.Warn("failed to finalize run", "error", err)
		}

		if err := result.WriteJSON(dir.ReportJSONPath()); err != nil {
			logger.Warn("failed to write JSON report", "error", err)
		}
		if err := result.WriteCSV(dir.ReportCSVPath()); err != nil {
			logger.Warn("failed to write CSV report", "error", err)
		}

		fmt.Printf("\nProcessed %d items in %s: %d succeeded, %d failed (%.0f%% success, $%.4f estimated)\n",
			result.Total(), result.Duration().Round(time.Second), len(result.Successes), len(result.Failures),
			result.SuccessRate()*100, result.TotalCostUSD())
		fmt.Printf("Reports: %s, %s\n", dir.ReportJSONPath(), dir.ReportCSVPath())

		if len(result.Failures) > 0 {
			for _, f := range result.Failures {
				fmt.Printf("  FAILED %s: %s\n", f.ItemID, f.ErrorMessage)
			}
			return fmt.Errorf("%d of %d items failed", len(result.Failures), result.Total())
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runFresh, "fresh", false, "discard saved progress and start over")
}

package pipeline

import (
	"fmt"

	"github.com/google/uuid"
)

// LoadOrCreateRun returns the persisted run state when an interrupted run
// exists, or a fresh state otherwise. resumed reports which case applied.
func (r *Runner) LoadOrCreateRun() (run *RunState, resumed bool, err error) {
	run, err = r.store.Load()
	if err != nil {
		return nil, false, fmt.Errorf("failed to load run state: %w", err)
	}
	if run != nil {
		r.logger.Info("resuming interrupted run",
			"run_id", run.RunID, "created_at", run.CreatedAt, "items", len(run.Items))
		return run, true, nil
	}
	return NewRunState(uuid.New().String()), false, nil
}

// FinalizeRun settles the run state after a batch pass: when every
// item's every stage is completed (or nothing was discovered) the state
// file is deleted; otherwise the overall status is downgraded and
// persisted so the next invocation resumes.
func (r *Runner) FinalizeRun(run *RunState) error {
	// A run that discovered no items has nothing left to resume;
	// persisting it would make the next invocation report a phantom
	// interrupted run.
	if len(run.Items) == 0 || run.AllCompleted() {
		run.OverallStatus = RunCompleted
		if err := r.store.Delete(); err != nil {
			return fmt.Errorf("failed to delete run state: %w", err)
		}
		r.logger.Info("run completed, state cleared", "run_id", run.RunID)
		return nil
	}

	run.OverallStatus = RunFailed
	r.persist(run)
	r.logger.Warn("run finished with incomplete items", "run_id", run.RunID)
	return nil
}

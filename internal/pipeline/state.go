// Package pipeline drives one input item through its ordered stages,
// persisting per-stage progress so an interrupted run resumes without
// re-doing completed work.
package pipeline

import (
	"time"
)

// StageStatus is the status of one stage of one item.
type StageStatus string

const (
	StatusNotStarted StageStatus = "not_started"
	StatusInProgress StageStatus = "in_progress"
	StatusCompleted  StageStatus = "completed"
	StatusFailed     StageStatus = "failed"
)

// Stage identifies one step of the per-item pipeline.
type Stage string

const (
	StageChunking        Stage = "chunking"
	StageSummarization   Stage = "summarization"
	StageConsolidation   Stage = "consolidation"
	StageMaterialization Stage = "materialization"
)

// StageOrder is the fixed execution order of the pipeline.
var StageOrder = []Stage{
	StageChunking,
	StageSummarization,
	StageConsolidation,
	StageMaterialization,
}

// RunStatus is the overall status of a run.
type RunStatus string

const (
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// ItemState tracks one input item's progress through the pipeline.
//
// Invariant: Outputs[stage] is set if and only if Stages[stage] is
// StatusCompleted. Output references are artifact paths relative to the
// output root, used to reload inputs for later stages on resume.
type ItemState struct {
	ItemID     string `json:"item_id"`
	SourcePath string `json:"source_path"`

	Stages  map[Stage]StageStatus `json:"stages"`
	Outputs map[Stage]string      `json:"outputs"`

	ErrorMessage string `json:"error_message,omitempty"`
}

// NewItemState creates a fresh item state with all stages not started.
func NewItemState(itemID, sourcePath string) *ItemState {
	stages := make(map[Stage]StageStatus, len(StageOrder))
	for _, s := range StageOrder {
		stages[s] = StatusNotStarted
	}
	return &ItemState{
		ItemID:     itemID,
		SourcePath: sourcePath,
		Stages:     stages,
		Outputs:    make(map[Stage]string),
	}
}

// Status returns the status of a stage, defaulting to not started.
func (s *ItemState) Status(stage Stage) StageStatus {
	if s.Stages == nil {
		return StatusNotStarted
	}
	status, ok := s.Stages[stage]
	if !ok {
		return StatusNotStarted
	}
	return status
}

// NextStage returns the first stage in pipeline order that is not
// completed. ok is false when every stage is completed.
func (s *ItemState) NextStage() (stage Stage, ok bool) {
	for _, st := range StageOrder {
		if s.Status(st) != StatusCompleted {
			return st, true
		}
	}
	return "", false
}

// Done reports whether every stage is completed.
func (s *ItemState) Done() bool {
	_, ok := s.NextStage()
	return !ok
}

// MarkInProgress transitions a stage to in progress and clears any prior
// failure message for a new attempt.
func (s *ItemState) MarkInProgress(stage Stage) {
	s.Stages[stage] = StatusInProgress
	s.ErrorMessage = ""
}

// MarkCompleted transitions a stage to completed and records its output
// reference.
func (s *ItemState) MarkCompleted(stage Stage, outputRef string) {
	s.Stages[stage] = StatusCompleted
	s.Outputs[stage] = outputRef
}

// MarkFailed transitions a stage to failed and records the cause.
func (s *ItemState) MarkFailed(stage Stage, errMsg string) {
	s.Stages[stage] = StatusFailed
	delete(s.Outputs, stage)
	s.ErrorMessage = errMsg
}

// RunState is the top-level persisted record of one run.
//
// It exists on disk if and only if at least one item has not completed
// every stage; it is deleted exactly when the whole run completes.
type RunState struct {
	RunID         string                `json:"run_id"`
	CreatedAt     time.Time             `json:"created_at"`
	OverallStatus RunStatus             `json:"overall_status"`
	Items         map[string]*ItemState `json:"items"`
}

// NewRunState creates a fresh run state.
func NewRunState(runID string) *RunState {
	return &RunState{
		RunID:         runID,
		CreatedAt:     time.Now().UTC(),
		OverallStatus: RunInProgress,
		Items:         make(map[string]*ItemState),
	}
}

// Item returns the state for an item, creating it on first entry.
func (r *RunState) Item(itemID, sourcePath string) *ItemState {
	if item, ok := r.Items[itemID]; ok {
		return item
	}
	item := NewItemState(itemID, sourcePath)
	r.Items[itemID] = item
	return item
}

// AllCompleted reports whether every item's every stage is completed.
func (r *RunState) AllCompleted() bool {
	if len(r.Items) == 0 {
		return false
	}
	for _, item := range r.Items {
		if !item.Done() {
			return false
		}
	}
	return true
}

// Package batch runs the item pipeline over a collection of inputs with
// per-item failure isolation and aggregate reporting.
package batch

import (
	"time"
)

// FileResult records the outcome of one item in a batch run.
type FileResult struct {
	ItemID     string  `json:"item_id"`
	SourcePath string  `json:"source_path"`
	Success    bool    `json:"success"`
	DurationMs int64   `json:"duration_ms"`
	CostUSD    float64 `json:"cost_usd"`

	// Sub-artifact counts
	Sections  int `json:"sections"`
	Summaries int `json:"summaries"`
	Cards     int `json:"cards"`

	ErrorMessage string `json:"error_message,omitempty"`
}

// BatchResult aggregates a whole batch run. Every input item appears in
// exactly one of the two lists exactly once.
type BatchResult struct {
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
	Successes []FileResult `json:"successes"`
	Failures  []FileResult `json:"failures"`
}

// Total returns the number of items processed.
func (b *BatchResult) Total() int {
	return len(b.Successes) + len(b.Failures)
}

// SuccessRate returns successes / total, or 0 for an empty batch.
func (b *BatchResult) SuccessRate() float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}
	return float64(len(b.Successes)) / float64(total)
}

// TotalCostUSD sums estimated cost across all items.
func (b *BatchResult) TotalCostUSD() float64 {
	var total float64
	for _, r := range b.Successes {
		total += r.CostUSD
	}
	for _, r := range b.Failures {
		total += r.CostUSD
	}
	return total
}

// Duration returns the wall-clock duration of the batch.
func (b *BatchResult) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

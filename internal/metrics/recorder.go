package metrics

import (
	"sync"
	"time"
)

// Recorder is an append-only in-memory store of call metrics for one run.
type Recorder struct {
	mu      sync.RWMutex
	metrics []*Metric
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a metric, stamping CreatedAt if unset.
func (r *Recorder) Record(m *Metric) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, m)
}

// List returns metrics matching the filter, in record order.
func (r *Recorder) List(f Filter) []*Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Metric
	for _, m := range r.metrics {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// Summary aggregates metrics for a filter.
type Summary struct {
	Count        int           `json:"count"`
	TotalCostUSD float64       `json:"total_cost_usd"`
	TotalTokens  int           `json:"total_tokens"`
	TotalTime    time.Duration `json:"total_time"`
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
}

// Summarize folds matching metrics into a Summary.
func (r *Recorder) Summarize(f Filter) Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s Summary
	for _, m := range r.metrics {
		if !f.Matches(m) {
			continue
		}
		s.Count++
		s.TotalCostUSD += m.CostUSD
		s.TotalTokens += m.TotalTokens
		s.TotalTime += time.Duration(m.ExecutionSeconds * float64(time.Second))
		if m.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
	}
	return s
}

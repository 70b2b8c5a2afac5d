package metrics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name             string
		model            string
		promptTokens     int
		completionTokens int
		want             float64
	}{
		{
			name:  "exact model",
			model: "gpt-4o-mini", promptTokens: 1_000_000, completionTokens: 1_000_000,
			want: 0.15 + 0.60,
		},
		{
			name:  "dated release resolves by prefix",
			model: "claude-sonnet-4-20250514", promptTokens: 1_000_000, completionTokens: 0,
			want: 3.00,
		},
		{
			name:  "longest prefix wins",
			model: "gpt-4o-mini-2024-07-18", promptTokens: 0, completionTokens: 1_000_000,
			want: 0.60,
		},
		{
			name:  "unknown model uses default",
			model: "mystery-model", promptTokens: 1_000_000, completionTokens: 0,
			want: 3.00,
		},
		{
			name:  "zero tokens",
			model: "gpt-4o", promptTokens: 0, completionTokens: 0,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCost(tt.model, tt.promptTokens, tt.completionTokens)
			if !almostEqual(got, tt.want) {
				t.Errorf("EstimateCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecorderFilter(t *testing.T) {
	r := NewRecorder()
	r.Record(&Metric{ItemID: "doc1", Stage: "summarization", Provider: "openai", Success: true, CostUSD: 0.01, TotalTokens: 100})
	r.Record(&Metric{ItemID: "doc1", Stage: "consolidation", Provider: "anthropic", Success: true, CostUSD: 0.02, TotalTokens: 200})
	r.Record(&Metric{ItemID: "doc2", Stage: "summarization", Provider: "openai", Success: false, ErrorType: "server"})

	if got := len(r.List(Filter{})); got != 3 {
		t.Errorf("List(all) = %d, want 3", got)
	}
	if got := len(r.List(Filter{ItemID: "doc1"})); got != 2 {
		t.Errorf("List(doc1) = %d, want 2", got)
	}
	if got := len(r.List(Filter{Stage: "summarization"})); got != 2 {
		t.Errorf("List(summarization) = %d, want 2", got)
	}
	if got := len(r.List(Filter{Provider: "anthropic"})); got != 1 {
		t.Errorf("List(anthropic) = %d, want 1", got)
	}

	failed := false
	if got := len(r.List(Filter{Success: &failed})); got != 1 {
		t.Errorf("List(failed) = %d, want 1", got)
	}
}

func TestRecorderSummarize(t *testing.T) {
	r := NewRecorder()
	r.Record(&Metric{ItemID: "doc1", Success: true, CostUSD: 0.01, TotalTokens: 100, ExecutionSeconds: 1.5})
	r.Record(&Metric{ItemID: "doc1", Success: false, ErrorType: "rate_limit"})
	r.Record(&Metric{ItemID: "doc2", Success: true, CostUSD: 0.05, TotalTokens: 500})

	s := r.Summarize(Filter{ItemID: "doc1"})
	if s.Count != 2 {
		t.Errorf("Count = %d, want 2", s.Count)
	}
	if !almostEqual(s.TotalCostUSD, 0.01) {
		t.Errorf("TotalCostUSD = %v, want 0.01", s.TotalCostUSD)
	}
	if s.TotalTokens != 100 {
		t.Errorf("TotalTokens = %d, want 100", s.TotalTokens)
	}
	if s.SuccessCount != 1 || s.ErrorCount != 1 {
		t.Errorf("success/error = %d/%d, want 1/1", s.SuccessCount, s.ErrorCount)
	}

	all := r.Summarize(Filter{})
	if all.Count != 3 || !almostEqual(all.TotalCostUSD, 0.06) {
		t.Errorf("all = %+v", all)
	}
}

func TestRecordStampsCreatedAt(t *testing.T) {
	r := NewRecorder()
	m := &Metric{ItemID: "doc1", Success: true}
	r.Record(m)
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped on record")
	}
}

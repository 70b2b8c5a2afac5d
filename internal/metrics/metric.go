// Package metrics provides cost and usage tracking for provider calls.
package metrics

import "time"

// Metric represents a single recorded provider call with full attribution.
type Metric struct {
	// Attribution (for filtering/aggregation)
	ItemID  string `json:"item_id,omitempty"`
	Stage   string `json:"stage,omitempty"`
	ItemKey string `json:"item_key,omitempty"` // e.g., "section_003"

	// Provider info
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// Cost and tokens
	CostUSD          float64 `json:"cost_usd,omitempty"`
	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	TotalTokens      int     `json:"total_tokens,omitempty"`

	// Timing
	ExecutionSeconds float64 `json:"execution_seconds,omitempty"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Filter selects metrics for aggregation.
type Filter struct {
	ItemID   string
	Stage    string
	Provider string
	Success  *bool
}

// Matches reports whether a metric satisfies the filter.
func (f Filter) Matches(m *Metric) bool {
	if f.ItemID != "" && m.ItemID != f.ItemID {
		return false
	}
	if f.Stage != "" && m.Stage != f.Stage {
		return false
	}
	if f.Provider != "" && m.Provider != f.Provider {
		return false
	}
	if f.Success != nil && m.Success != *f.Success {
		return false
	}
	return true
}

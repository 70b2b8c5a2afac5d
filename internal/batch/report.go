package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// reportDocument is the machine-readable batch report layout.
type reportDocument struct {
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	DurationMs   int64        `json:"duration_ms"`
	Total        int          `json:"total"`
	SuccessCount int          `json:"success_count"`
	FailureCount int          `json:"failure_count"`
	SuccessRate  float64      `json:"success_rate"`
	TotalCostUSD float64      `json:"total_cost_usd"`
	Successes    []FileResult `json:"successes"`
	Failures     []FileResult `json:"failures"`
}

// WriteJSON writes the structured report document.
func (b *BatchResult) WriteJSON(path string) error {
	doc := reportDocument{
		StartTime:    b.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		EndTime:      b.EndTime.Format("2006-01-02T15:04:05Z07:00"),
		DurationMs:   b.Duration().Milliseconds(),
		Total:        b.Total(),
		SuccessCount: len(b.Successes),
		FailureCount: len(b.Failures),
		SuccessRate:  b.SuccessRate(),
		TotalCostUSD: b.TotalCostUSD(),
		Successes:    b.Successes,
		Failures:     b.Failures,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes the flat tabular report, one row per item.
func (b *BatchResult) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"item_id", "status", "duration_ms", "cost_usd", "sections", "summaries", "cards", "error_message"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	writeRow := func(r FileResult, status string) error {
		return w.Write([]string{
			r.ItemID,
			status,
			strconv.FormatInt(r.DurationMs, 10),
			strconv.FormatFloat(r.CostUSD, 'f', 6, 64),
			strconv.Itoa(r.Sections),
			strconv.Itoa(r.Summaries),
			strconv.Itoa(r.Cards),
			r.ErrorMessage,
		})
	}

	for _, r := range b.Successes {
		if err := writeRow(r, "success"); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	for _, r := range b.Failures {
		if err := writeRow(r, "failed"); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

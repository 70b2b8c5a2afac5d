package batch

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/studyforge/distill/internal/pipeline"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProcessor records processed item IDs and fails the configured ones.
type stubProcessor struct {
	processed []string
	failIDs   map[string]bool
	report    pipeline.ItemReport
}

func (s *stubProcessor) ProcessItem(ctx context.Context, run *pipeline.RunState, itemID, sourcePath string) (*pipeline.ItemReport, error) {
	s.processed = append(s.processed, itemID)
	if s.failIDs[itemID] {
		return nil, fmt.Errorf("item %s: injected failure", itemID)
	}
	rep := s.report
	rep.ItemID = itemID
	return &rep, nil
}

func testItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:         fmt.Sprintf("doc%d", i+1),
			SourcePath: fmt.Sprintf("/in/doc%d.txt", i+1),
		}
	}
	return items
}

func TestRunIsolatesFailures(t *testing.T) {
	proc := &stubProcessor{
		failIDs: map[string]bool{"doc3": true},
		report:  pipeline.ItemReport{Sections: 2, Summaries: 2, Cards: 4, CostUSD: 0.01},
	}
	runner := NewRunner(proc, quietLogger())

	result := runner.Run(context.Background(), pipeline.NewRunState("run-1"), testItems(5))

	if len(proc.processed) != 5 {
		t.Errorf("processed = %v, want all 5 items attempted", proc.processed)
	}
	if len(result.Successes) != 4 {
		t.Errorf("successes = %d, want 4", len(result.Successes))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(result.Failures))
	}

	failure := result.Failures[0]
	if failure.ItemID != "doc3" {
		t.Errorf("failed item = %q, want doc3", failure.ItemID)
	}
	if failure.ErrorMessage == "" {
		t.Error("failure should carry an error message")
	}
	if failure.Success {
		t.Error("failure record marked successful")
	}

	// Partition invariant: every item in exactly one list.
	if result.Total() != 5 {
		t.Errorf("Total() = %d, want 5", result.Total())
	}
	if got := result.SuccessRate(); got != 0.8 {
		t.Errorf("SuccessRate() = %v, want 0.8", got)
	}

	for _, success := range result.Successes {
		if success.Sections != 2 || success.Cards != 4 {
			t.Errorf("success record %+v missing report counts", success)
		}
	}
}

func TestRunEmptyBatch(t *testing.T) {
	proc := &stubProcessor{}
	runner := NewRunner(proc, quietLogger())

	result := runner.Run(context.Background(), pipeline.NewRunState("run-1"), nil)

	if result.Total() != 0 {
		t.Errorf("Total() = %d, want 0", result.Total())
	}
	if result.SuccessRate() != 0 {
		t.Errorf("SuccessRate() = %v, want 0", result.SuccessRate())
	}
	if result.EndTime.Before(result.StartTime) {
		t.Error("EndTime before StartTime")
	}
}

func TestRunStopsBetweenItemsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	proc := &stubProcessor{}
	runner := NewRunner(proc, quietLogger())

	cancel()
	result := runner.Run(ctx, pipeline.NewRunState("run-1"), testItems(3))

	if len(proc.processed) != 0 {
		t.Errorf("processed = %v, want none after cancellation", proc.processed)
	}
	// Unprocessed items are still accounted for.
	if len(result.Failures) != 3 {
		t.Errorf("failures = %d, want 3", len(result.Failures))
	}
	for _, f := range result.Failures {
		if f.ErrorMessage != context.Canceled.Error() {
			t.Errorf("failure %+v should record cancellation", f)
		}
	}
}

func TestTotalCostUSD(t *testing.T) {
	result := &BatchResult{
		Successes: []FileResult{{CostUSD: 0.25}, {CostUSD: 0.5}},
		Failures:  []FileResult{{CostUSD: 0.1}},
	}
	if got := result.TotalCostUSD(); got != 0.85 {
		t.Errorf("TotalCostUSD() = %v, want 0.85", got)
	}
}

func TestDiscoverItems(t *testing.T) {
	dir := t.TempDir()
	files := []string{"b.txt", "a.md", "notes.markdown", "skip.pdf", "README"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	items, err := DiscoverItems(dir)
	if err != nil {
		t.Fatalf("DiscoverItems() error = %v", err)
	}

	wantIDs := []string{"a", "b", "notes"}
	if len(items) != len(wantIDs) {
		t.Fatalf("items = %+v, want IDs %v", items, wantIDs)
	}
	for i, want := range wantIDs {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, want)
		}
		if _, err := os.Stat(items[i].SourcePath); err != nil {
			t.Errorf("SourcePath %q does not exist", items[i].SourcePath)
		}
	}
}

func TestDiscoverItemsMissingDir(t *testing.T) {
	if _, err := DiscoverItems(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWriteJSONReport(t *testing.T) {
	result := &BatchResult{
		Successes: []FileResult{
			{ItemID: "doc1", Success: true, DurationMs: 1200, CostUSD: 0.02, Sections: 3, Summaries: 3, Cards: 6},
		},
		Failures: []FileResult{
			{ItemID: "doc2", DurationMs: 400, ErrorMessage: "provider down"},
		},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := result.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	if doc["total"].(float64) != 2 {
		t.Errorf("total = %v, want 2", doc["total"])
	}
	if doc["success_count"].(float64) != 1 || doc["failure_count"].(float64) != 1 {
		t.Errorf("counts = %v/%v, want 1/1", doc["success_count"], doc["failure_count"])
	}
	if doc["success_rate"].(float64) != 0.5 {
		t.Errorf("success_rate = %v, want 0.5", doc["success_rate"])
	}
}

func TestWriteCSVReport(t *testing.T) {
	result := &BatchResult{
		Successes: []FileResult{
			{ItemID: "doc1", Success: true, DurationMs: 1200, CostUSD: 0.02, Sections: 3, Summaries: 3, Cards: 6},
		},
		Failures: []FileResult{
			{ItemID: "doc2", DurationMs: 400, ErrorMessage: "provider down"},
		},
	}

	path := filepath.Join(t.TempDir(), "report.csv")
	if err := result.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "item_id" || rows[0][1] != "status" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "doc1" || rows[1][1] != "success" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][0] != "doc2" || rows[2][1] != "failed" || rows[2][7] != "provider down" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/studyforge/distill/internal/pipeline"
)

// Item is one discovered input document.
type Item struct {
	ID         string
	SourcePath string
}

// ItemProcessor advances one item through the pipeline. Satisfied by
// *pipeline.Runner.
type ItemProcessor interface {
	ProcessItem(ctx context.Context, run *pipeline.RunState, itemID, sourcePath string) (*pipeline.ItemReport, error)
}

// Runner iterates a collection of items sequentially, isolating each
// item's failure from the others. It has no stage-level knowledge and
// never touches the state store; each ProcessItem invocation manages its
// own item's durable state.
type Runner struct {
	processor ItemProcessor
	logger    *slog.Logger
}

// NewRunner creates a batch runner.
func NewRunner(processor ItemProcessor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{processor: processor, logger: logger}
}

// Run processes every item in order and returns the aggregate result.
// One item's failure never aborts the batch; an empty item list is a
// valid, reported case. Context cancellation stops the batch between
// items, recording remaining items as failures.
func (r *Runner) Run(ctx context.Context, run *pipeline.RunState, items []Item) *BatchResult {
	result := &BatchResult{
		StartTime: time.Now().UTC(),
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			result.Failures = append(result.Failures, FileResult{
				ItemID:       item.ID,
				SourcePath:   item.SourcePath,
				ErrorMessage: err.Error(),
			})
			continue
		}

		start := time.Now()
		report, err := r.processor.ProcessItem(ctx, run, item.ID, item.SourcePath)
		elapsed := time.Since(start)

		if err != nil {
			r.logger.Error("item failed", "item", item.ID, "duration", elapsed, "error", err)
			result.Failures = append(result.Failures, FileResult{
				ItemID:       item.ID,
				SourcePath:   item.SourcePath,
				DurationMs:   elapsed.Milliseconds(),
				ErrorMessage: err.Error(),
			})
			continue
		}

		r.logger.Info("item completed", "item", item.ID, "duration", elapsed,
			"sections", report.Sections, "cards", report.Cards, "cost_usd", report.CostUSD)
		result.Successes = append(result.Successes, FileResult{
			ItemID:     item.ID,
			SourcePath: item.SourcePath,
			Success:    true,
			DurationMs: elapsed.Milliseconds(),
			CostUSD:    report.CostUSD,
			Sections:   report.Sections,
			Summaries:  report.Summaries,
			Cards:      report.Cards,
		})
	}

	result.EndTime = time.Now().UTC()
	return result
}

// sourceExtensions lists the input file types picked up by discovery.
var sourceExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// DiscoverItems lists input documents in a directory, sorted by name.
// The item ID is the filename without extension.
func DiscoverItems(inputDir string) ([]Item, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !sourceExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		items = append(items, Item{
			ID:         strings.TrimSuffix(name, filepath.Ext(name)),
			SourcePath: filepath.Join(inputDir, name),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

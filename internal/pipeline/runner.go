package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studyforge/distill/internal/home"
	"github.com/studyforge/distill/internal/metrics"
	"github.com/studyforge/distill/internal/providers"
	"github.com/studyforge/distill/internal/retry"
)

// Provider roles consumed from the registry. The stage-to-provider
// mapping is resolved once at startup from configuration.
const (
	RoleSummarize   = "summarize"
	RoleConsolidate = "consolidate"
	RoleMaterialize = "materialize"
)

// Runner advances a single item through its ordered stages, skipping
// stages already completed and persisting state after every transition.
type Runner struct {
	home     *home.Dir
	store    StateStore
	registry *providers.Registry
	retry    *retry.Policy
	recorder *metrics.Recorder
	logger   *slog.Logger

	maxTokens   int
	temperature float64
}

// RunnerConfig bundles the Runner's dependencies.
type RunnerConfig struct {
	Home     *home.Dir
	Store    StateStore
	Registry *providers.Registry
	Retry    *retry.Policy
	Recorder *metrics.Recorder
	Logger   *slog.Logger

	// MaxTokens caps generation length per call (default 4096).
	MaxTokens int
	// Temperature for generation. Zero is a valid setting; nil selects
	// the default of 0.2.
	Temperature *float64
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Home == nil {
		return nil, fmt.Errorf("runner requires an output directory")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("runner requires a state store")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("runner requires a provider registry")
	}
	if cfg.Retry == nil {
		cfg.Retry = retry.NewPolicy(retry.DefaultMaxRetries, retry.DefaultInitialDelay)
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NewRecorder()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}
	temperature := 0.2
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return &Runner{
		home:        cfg.Home,
		store:       cfg.Store,
		registry:    cfg.Registry,
		retry:       cfg.Retry,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
		maxTokens:   cfg.MaxTokens,
		temperature: temperature,
	}, nil
}

// ItemReport summarizes one ProcessItem invocation for batch reporting.
type ItemReport struct {
	ItemID    string  `json:"item_id"`
	Sections  int     `json:"sections"`
	Summaries int     `json:"summaries"`
	Cards     int     `json:"cards"`
	CostUSD   float64 `json:"cost_usd"`
}

// ProcessItem advances one item until it is done or a stage fails.
// Re-running on a fully completed item is a pure no-op with no provider
// calls. The run state is persisted before and after every stage
// transition so a crash mid-call is observable as in-progress.
func (r *Runner) ProcessItem(ctx context.Context, run *RunState, itemID, sourcePath string) (*ItemReport, error) {
	item := run.Item(itemID, sourcePath)

	for {
		stage, ok := item.NextStage()
		if !ok {
			return r.report(itemID)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Persist in-progress before any remote work so a crash
		// mid-call is resumable rather than silently lost.
		item.MarkInProgress(stage)
		r.persist(run)

		r.logger.Info("stage started", "item", itemID, "stage", stage)

		outputRef, err := r.executeStage(ctx, item, stage)
		if err != nil {
			item.MarkFailed(stage, err.Error())
			r.persist(run)
			r.logger.Error("stage failed", "item", itemID, "stage", stage, "error", err)
			return nil, fmt.Errorf("item %s stage %s: %w", itemID, stage, err)
		}

		item.MarkCompleted(stage, outputRef)
		r.persist(run)
		r.logger.Info("stage completed", "item", itemID, "stage", stage, "output", outputRef)
	}
}

// persist saves the run state. Save failures degrade resumability, not
// in-process correctness, so they are logged and swallowed.
func (r *Runner) persist(run *RunState) {
	if err := r.store.Save(run); err != nil {
		r.logger.Warn("failed to persist run state", "error", err)
	}
}

// report builds an ItemReport from the item's artifacts and this run's
// recorded metrics.
func (r *Runner) report(itemID string) (*ItemReport, error) {
	rep := &ItemReport{ItemID: itemID}

	if sections, err := loadSections(r.home.ChunksPath(itemID)); err == nil {
		rep.Sections = len(sections)
	}
	if summaries, err := loadSummaries(r.home.SummariesPath(itemID)); err == nil {
		rep.Summaries = len(summaries)
	}
	var deck Deck
	if err := readJSONArtifact(r.home.DeckPath(itemID), &deck); err == nil {
		rep.Cards = len(deck.Cards)
	}
	rep.CostUSD = r.recorder.Summarize(metrics.Filter{ItemID: itemID}).TotalCostUSD

	return rep, nil
}

// generate routes one prompt pair through the provider assigned to the
// role, wrapped in the retry policy, and records a metric per call.
func (r *Runner) generate(ctx context.Context, role, itemID string, stage Stage, itemKey, systemPrompt, userPrompt string) (*providers.GenerateResult, error) {
	client, err := r.registry.ForRole(role)
	if err != nil {
		return nil, err
	}

	req := &providers.GenerateRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  r.temperature,
		MaxTokens:    r.maxTokens,
		RequestID:    uuid.New().String(),
	}

	result, err := retry.Do(ctx, r.retry, func(ctx context.Context) (*providers.GenerateResult, error) {
		return client.Generate(ctx, req)
	})

	metric := &metrics.Metric{
		ItemID:   itemID,
		Stage:    string(stage),
		ItemKey:  itemKey,
		Provider: client.Name(),
		Model:    client.Model(),
		Success:  err == nil,
	}
	if err != nil {
		metric.ErrorType = providers.ErrorType(err)
	} else {
		metric.PromptTokens = result.PromptTokens
		metric.CompletionTokens = result.CompletionTokens
		metric.TotalTokens = result.TotalTokens
		metric.ExecutionSeconds = result.ExecutionTime.Seconds()
		metric.CostUSD = metrics.EstimateCost(result.ModelUsed, result.PromptTokens, result.CompletionTokens)
		result.CostUSD = metric.CostUSD
	}
	r.recorder.Record(metric)

	return result, err
}

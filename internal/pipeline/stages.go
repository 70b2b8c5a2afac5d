package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/studyforge/distill/internal/chunk"
	"github.com/studyforge/distill/internal/prompts/consolidate"
	"github.com/studyforge/distill/internal/prompts/materialize"
	"github.com/studyforge/distill/internal/prompts/summarize"
	"github.com/studyforge/distill/internal/providers"
)

// executeStage runs one stage's work and returns its output artifact
// reference. Inputs from earlier stages are reloaded from their persisted
// artifacts, never recomputed.
func (r *Runner) executeStage(ctx context.Context, item *ItemState, stage Stage) (string, error) {
	if err := r.home.EnsureItemDir(item.ItemID); err != nil {
		return "", err
	}

	switch stage {
	case StageChunking:
		return r.runChunking(item)
	case StageSummarization:
		return r.runSummarization(ctx, item)
	case StageConsolidation:
		return r.runConsolidation(ctx, item)
	case StageMaterialization:
		return r.runMaterialization(ctx, item)
	default:
		return "", fmt.Errorf("unknown stage: %s", stage)
	}
}

// runChunking splits the source document into sections. Purely local.
func (r *Runner) runChunking(item *ItemState) (string, error) {
	raw, err := os.ReadFile(item.SourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to read source %s: %w", item.SourcePath, err)
	}

	sections := chunk.Chunk(string(raw))
	if len(sections) == 0 {
		return "", fmt.Errorf("source %s produced no sections", item.SourcePath)
	}

	path := r.home.ChunksPath(item.ItemID)
	if err := writeJSONArtifact(path, sections); err != nil {
		return "", err
	}
	return path, nil
}

// runSummarization summarizes each section with the summarize-role
// provider, one call per section.
func (r *Runner) runSummarization(ctx context.Context, item *ItemState) (string, error) {
	sections, err := loadSections(item.Outputs[StageChunking])
	if err != nil {
		return "", err
	}

	summaries := make([]SectionSummary, 0, len(sections))
	for _, section := range sections {
		result, err := r.generate(ctx, RoleSummarize, item.ItemID, StageSummarization,
			section.ID, summarize.SystemPrompt(), summarize.UserPrompt(section.Title, section.Text))
		if err != nil {
			return "", fmt.Errorf("section %s: %w", section.ID, err)
		}
		summaries = append(summaries, SectionSummary{
			SectionID: section.ID,
			Title:     section.Title,
			Summary:   result.Content,
		})
	}

	path := r.home.SummariesPath(item.ItemID)
	if err := writeJSONArtifact(path, summaries); err != nil {
		return "", err
	}
	return path, nil
}

// runConsolidation merges all section summaries into one markdown note
// with a single consolidate-role call.
func (r *Runner) runConsolidation(ctx context.Context, item *ItemState) (string, error) {
	summaries, err := loadSummaries(item.Outputs[StageSummarization])
	if err != nil {
		return "", err
	}

	inputs := make([]consolidate.SummaryInput, len(summaries))
	for i, s := range summaries {
		inputs[i] = consolidate.SummaryInput{
			SectionID: s.SectionID,
			Title:     s.Title,
			Summary:   s.Summary,
		}
	}

	result, err := r.generate(ctx, RoleConsolidate, item.ItemID, StageConsolidation,
		"", consolidate.SystemPrompt(), consolidate.UserPrompt(item.ItemID, inputs))
	if err != nil {
		return "", err
	}

	path := r.home.ConsolidatedPath(item.ItemID)
	if err := os.WriteFile(path, []byte(result.Content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return path, nil
}

// runMaterialization turns the consolidated notes into the final note
// file and a validated flashcard deck. A malformed deck response is
// downgraded to a placeholder deck rather than failing the stage; the
// stage semantics tolerate partial output.
func (r *Runner) runMaterialization(ctx context.Context, item *ItemState) (string, error) {
	notes, err := loadConsolidated(item.Outputs[StageConsolidation])
	if err != nil {
		return "", err
	}

	notesPath := r.home.NotesPath(item.ItemID)
	if err := os.WriteFile(notesPath, []byte(notes), 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", notesPath, err)
	}

	result, err := r.generate(ctx, RoleMaterialize, item.ItemID, StageMaterialization,
		"", materialize.SystemPrompt(), materialize.UserPrompt(item.ItemID, notes))
	if err != nil {
		return "", err
	}

	deck, err := ParseDeck(result.Provider, result.Content)
	if err != nil {
		var malformed *providers.MalformedResponseError
		if !errors.As(err, &malformed) {
			return "", err
		}
		r.logger.Warn("deck output failed validation, writing placeholder deck",
			"item", item.ItemID, "error", err)
		deck = placeholderDeck(item.ItemID, result.Content)
	}

	path := r.home.DeckPath(item.ItemID)
	if err := writeJSONArtifact(path, deck); err != nil {
		return "", err
	}
	return path, nil
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/studyforge/distill/internal/chunk"
)

// SectionSummary is one summarized section, the unit of the
// summarization stage's output artifact.
type SectionSummary struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title,omitempty"`
	Summary   string `json:"summary"`
}

// writeJSONArtifact marshals v to path with indentation.
func writeJSONArtifact(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}

// readJSONArtifact unmarshals the artifact at path into v.
func readJSONArtifact(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	return nil
}

// loadSections reloads the chunking stage's output artifact.
func loadSections(path string) ([]chunk.Section, error) {
	var sections []chunk.Section
	if err := readJSONArtifact(path, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// loadSummaries reloads the summarization stage's output artifact.
func loadSummaries(path string) ([]SectionSummary, error) {
	var summaries []SectionSummary
	if err := readJSONArtifact(path, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// loadConsolidated reloads the consolidation stage's markdown artifact.
func loadConsolidated(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return string(data), nil
}

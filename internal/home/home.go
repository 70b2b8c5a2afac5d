// Package home defines the on-disk layout of a distill output root:
// per-item stage artifacts, final notes and decks, reports, and the
// well-known run state file.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the distill home directory.
	DefaultDirName = ".distill"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// StateFileName is the well-known run state file under the output root.
	// Presence of this file means an interrupted run exists.
	StateFileName = "run_state.json"
)

// Dir represents the distill output directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.distill).
func New(path string) (*Dir, error) {
	if path == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(userHome, DefaultDirName)
	}
	return &Dir{path: path}, nil
}

// Path returns the root path of the output directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// StatePath returns the path to the run state file.
func (d *Dir) StatePath() string {
	return filepath.Join(d.path, StateFileName)
}

// ItemDir returns the artifact directory for one input item.
func (d *Dir) ItemDir(itemID string) string {
	return filepath.Join(d.path, "items", itemID)
}

// ChunksPath returns the chunking stage output for an item.
func (d *Dir) ChunksPath(itemID string) string {
	return filepath.Join(d.ItemDir(itemID), "chunks.json")
}

// SummariesPath returns the summarization stage output for an item.
func (d *Dir) SummariesPath(itemID string) string {
	return filepath.Join(d.ItemDir(itemID), "summaries.json")
}

// ConsolidatedPath returns the consolidation stage output for an item.
func (d *Dir) ConsolidatedPath(itemID string) string {
	return filepath.Join(d.ItemDir(itemID), "consolidated.md")
}

// NotesPath returns the materialized markdown note for an item.
func (d *Dir) NotesPath(itemID string) string {
	return filepath.Join(d.ItemDir(itemID), "notes.md")
}

// DeckPath returns the materialized flashcard deck for an item.
func (d *Dir) DeckPath(itemID string) string {
	return filepath.Join(d.ItemDir(itemID), "deck.json")
}

// ReportJSONPath returns the location of the machine-readable batch report.
func (d *Dir) ReportJSONPath() string {
	return filepath.Join(d.path, "report.json")
}

// ReportCSVPath returns the location of the tabular batch report.
func (d *Dir) ReportCSVPath() string {
	return filepath.Join(d.path, "report.csv")
}

// EnsureExists creates the output root if it does not exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// EnsureItemDir creates the artifact directory for an item.
func (d *Dir) EnsureItemDir(itemID string) error {
	if err := os.MkdirAll(d.ItemDir(itemID), 0o755); err != nil {
		return fmt.Errorf("failed to create item directory: %w", err)
	}
	return nil
}

// Exists returns true if the output root exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

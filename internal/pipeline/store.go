package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// StateStore persists RunState so a new process invocation can detect and
// resume an interrupted run.
type StateStore interface {
	// Save serializes the full state, overwriting prior content. A
	// concurrent reader never observes a partial write.
	Save(state *RunState) error

	// Load returns the persisted state, or (nil, nil) when no state
	// exists (a fresh run). A corrupt file is treated as absent.
	Load() (*RunState, error)

	// Exists is a cheap existence check without deserialization.
	Exists() bool

	// Delete removes the persisted state.
	Delete() error
}

// FileStateStore persists RunState as a single JSON document at a
// well-known path, using write-then-rename so readers never see a
// partially written file.
type FileStateStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStateStore creates a store backed by the given file path.
func NewFileStateStore(path string, logger *slog.Logger) *FileStateStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStateStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStateStore) Path() string {
	return s.path
}

func (s *FileStateStore) Save(state *RunState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".run_state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (s *FileStateStore) Load() (*RunState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state RunState
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt state costs resumability, not correctness: stage
		// outputs are independently verifiable artifacts on disk.
		s.logger.Warn("run state file is corrupt, treating as absent",
			"path", s.path, "error", err)
		return nil, nil
	}
	return &state, nil
}

func (s *FileStateStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *FileStateStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

// Verify interface
var _ StateStore = (*FileStateStore)(nil)

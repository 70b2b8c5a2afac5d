package pipeline

import (
	"encoding/json"
	"sync"
)

// MemoryStateStore implements StateStore with in-memory storage for unit
// tests. It round-trips state through JSON so tests exercise the same
// serialization the file store uses, and supports error injection.
type MemoryStateStore struct {
	mu   sync.Mutex
	data []byte

	// SaveCount tracks Save calls for test assertions.
	SaveCount int

	// --- Error injection fields for testing ---

	// SaveErr is returned by Save when non-nil.
	SaveErr error

	// LoadErr is returned by Load when non-nil.
	LoadErr error

	// DeleteErr is returned by Delete when non-nil.
	DeleteErr error
}

// NewMemoryStateStore creates an empty in-memory store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

func (s *MemoryStateStore) Save(state *RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCount++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.data = data
	return nil
}

func (s *MemoryStateStore) Load() (*RunState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.data == nil {
		return nil, nil
	}
	var state RunState
	if err := json.Unmarshal(s.data, &state); err != nil {
		return nil, nil
	}
	return &state, nil
}

func (s *MemoryStateStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data != nil
}

func (s *MemoryStateStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.data = nil
	return nil
}

// Verify interface
var _ StateStore = (*MemoryStateStore)(nil)

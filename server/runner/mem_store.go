package runner

import (
	"slices"
	"sync"
)

const defaultMaxHistorySize = 100

// MemoryStore keeps run history in memory only (no persistence).
type MemoryStore struct {
	runs    []RunStatus
	maxSize int
	mu      sync.Mutex
}

// NewMemoryStore creates a new in-memory store holding at most
// maxSize runs. A non-positive maxSize uses the default of 100.
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = defaultMaxHistorySize
	}
	return &MemoryStore{
		runs:    make([]RunStatus, 0),
		maxSize: maxSize,
	}
}

// Runs returns a copy of all runs, most recent first.
func (s *MemoryStore) Runs() []RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.runs)
}

// Save stores a run in memory, dropping the oldest once full.
func (s *MemoryStore) Save(run RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Prepend to keep most recent first
	s.runs = append([]RunStatus{run}, s.runs...)
	if len(s.runs) > s.maxSize {
		s.runs = s.runs[:s.maxSize]
	}
	return nil
}

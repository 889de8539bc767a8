package history

import "sync"

// Store is the persistence backend for the resolution log. The contract is
// append and read-all only; filtering happens above the store.
type Store interface {
	Append(record ResolutionRecord) error
	ReadAll() ([]ResolutionRecord, error)
}

// MemoryStore keeps records for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []ResolutionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(record ResolutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryStore) ReadAll() ([]ResolutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ResolutionRecord(nil), s.records...), nil
}

package consent

import (
	"context"
	"sync"
)

// InMemoryStore keeps the decision for the current process only. It backs the
// degraded mode when durable storage is unavailable and keeps tests
// lightweight.
type InMemoryStore struct {
	mu       sync.RWMutex
	decision Decision
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Read(_ context.Context) (Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decision, nil
}

func (s *InMemoryStore) Write(_ context.Context, decision Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decision = decision
	return nil
}

// Clear resets the record, mimicking external storage clearance.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decision = DecisionUnset
}

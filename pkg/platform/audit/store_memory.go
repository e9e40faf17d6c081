package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps a bounded ring of recent events for development runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
	max    int
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{max: 1000}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.max {
		s.events = s.events[len(s.events)-s.max:]
	}
	return nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]Event, limit)
	// Newest first.
	for i := 0; i < limit; i++ {
		out[i] = s.events[len(s.events)-1-i]
	}
	return out, nil
}

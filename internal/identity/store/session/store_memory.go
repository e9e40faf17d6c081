package session

import (
	"context"
	"sync"
	"time"

	"biblio/internal/identity/models"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/requestcontext"
)

// InMemoryStore keeps sessions in a map. Expiry is checked on read against
// the request-scoped clock, so tests can advance time without sleeping.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]models.Session)}
}

func (s *InMemoryStore) Save(ctx context.Context, sess models.Session, ttl time.Duration) error {
	sess.ExpiresAt = requestcontext.Now(ctx).Add(ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *InMemoryStore) Find(ctx context.Context, token string) (models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return models.Session{}, sentinel.ErrNotFound
	}
	if sess.ExpiredAt(requestcontext.Now(ctx)) {
		// Lazily drop the expired entry; the external stores expire natively.
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return models.Session{}, sentinel.ErrNotFound
	}
	return sess, nil
}

func (s *InMemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

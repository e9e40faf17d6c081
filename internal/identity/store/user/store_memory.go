package user

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"biblio/internal/identity/models"
	"biblio/pkg/platform/sentinel"
)

// InMemoryStore keeps users in a map. It backs development runs without a
// database and doubles as the test fake.
type InMemoryStore struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]models.User
	byUsername map[string]uuid.UUID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		users:      make(map[uuid.UUID]models.User),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Check-and-insert under one lock mirrors the unique index the Postgres
	// store relies on.
	if _, exists := s.byUsername[user.Username]; exists {
		return sentinel.ErrConflict
	}
	s.users[user.ID] = user
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return models.User{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byUsername[username]; ok {
		return s.users[id], nil
	}
	return models.User{}, sentinel.ErrNotFound
}

// Delete removes a user. Only tests use it, to simulate an identity deleted
// by administrative action while a session still references it.
func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		delete(s.byUsername, user.Username)
		delete(s.users, id)
	}
}

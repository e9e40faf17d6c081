package user

import (
	"context"

	"github.com/google/uuid"

	"biblio/internal/identity/models"
)

// Store persists identity records. Create must be race-safe: when two
// concurrent registrations carry the same username, at most one may succeed,
// which the Postgres implementation guarantees with a unique index rather
// than an application-level check.
type Store interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	// FindByUsername performs an exact, case-sensitive match.
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

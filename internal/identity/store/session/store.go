package session

import (
	"context"
	"time"

	"biblio/internal/identity/models"
)

// Store persists session state keyed by the cookie-carried token. Find must
// treat an expired session as absent; callers never see stale identity
// attachments.
type Store interface {
	// Save writes the session and (re)starts its TTL.
	Save(ctx context.Context, sess models.Session, ttl time.Duration) error
	Find(ctx context.Context, token string) (models.Session, error)
	Delete(ctx context.Context, token string) error
}

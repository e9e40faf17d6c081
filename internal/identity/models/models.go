package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity record: the username plus the derived credential pair.
// The plaintext password is never stored; see internal/identity/credentials.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Salt         string
	CreatedAt    time.Time
}

// Session is the server-side state behind a cookie-carried token. UserID is
// nil until a login succeeds; that attachment is the moment the session
// becomes authenticated.
type Session struct {
	Token     string
	UserID    uuid.UUID
	Device    string
	IP        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether an identity is attached.
func (s Session) Authenticated() bool {
	return s.UserID != uuid.Nil
}

// ExpiredAt reports whether the session has passed its TTL as of now.
func (s Session) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

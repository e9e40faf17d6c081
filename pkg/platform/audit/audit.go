// Package audit records security- and compliance-relevant actions: who did
// what, when, under which request. Events are emitted from domain logic and
// fanned out to a store; a failed append is logged and never fails the
// triggering request.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"biblio/pkg/requestcontext"
)

// Category classifies events for retention and routing.
type Category string

const (
	CategorySecurity   Category = "security"
	CategoryCompliance Category = "compliance"
	CategoryOperations Category = "operations"
)

// Action names the recorded event.
type Action string

const (
	ActionUserRegistered Action = "user_registered"
	ActionLoginSucceeded Action = "login_succeeded"
	ActionLoginFailed    Action = "login_failed"
	ActionLogout         Action = "logout"
	ActionAuthorCreated  Action = "author_created"
	ActionAuthorUpdated  Action = "author_updated"
	ActionAuthorDeleted  Action = "author_deleted"
	ActionBookCreated    Action = "book_created"
	ActionBookUpdated    Action = "book_updated"
	ActionBookDeleted    Action = "book_deleted"
	ActionGenreCreated   Action = "genre_created"
	ActionGenreUpdated   Action = "genre_updated"
	ActionGenreDeleted   Action = "genre_deleted"
	ActionCopyCreated    Action = "copy_created"
	ActionCopyUpdated    Action = "copy_updated"
	ActionCopyDeleted    Action = "copy_deleted"
)

var actionCategories = map[Action]Category{
	ActionUserRegistered: CategoryCompliance,
	ActionLoginSucceeded: CategorySecurity,
	ActionLoginFailed:    CategorySecurity,
	ActionLogout:         CategorySecurity,
}

// CategoryOf returns the category for an action; catalog mutations default to
// operations.
func CategoryOf(action Action) Category {
	if c, ok := actionCategories[action]; ok {
		return c
	}
	return CategoryOperations
}

// Event is a single audit record.
type Event struct {
	ID        uuid.UUID
	Category  Category
	Action    Action
	UserID    uuid.UUID
	Subject   string
	RequestID string
	At        time.Time
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Recorder fills in request-scoped fields and swallows store failures.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record writes an event. The acting user, request ID, and timestamp come
// from the request context.
func (r *Recorder) Record(ctx context.Context, action Action, subject string) {
	event := Event{
		ID:        uuid.New(),
		Category:  CategoryOf(action),
		Action:    action,
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
		At:        requestcontext.Now(ctx),
	}
	if p, ok := requestcontext.PrincipalFrom(ctx); ok {
		event.UserID = p.UserID
	}
	if err := r.store.Append(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "failed to append audit event",
			"error", err,
			"action", string(action),
			"request_id", event.RequestID,
		)
	}
}

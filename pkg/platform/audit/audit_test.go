package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"biblio/pkg/requestcontext"
)

type AuditSuite struct {
	suite.Suite
	store    *InMemoryStore
	recorder *Recorder
}

func (s *AuditSuite) SetupTest() {
	s.store = NewInMemory()
	s.recorder = NewRecorder(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditSuite))
}

func (s *AuditSuite) TestRecord() {
	s.Run("fills request-scoped fields from the context", func() {
		userID := uuid.New()
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		ctx := requestcontext.WithRequestID(context.Background(), "req-42")
		ctx = requestcontext.WithTime(ctx, at)
		ctx = requestcontext.WithPrincipal(ctx, requestcontext.Principal{UserID: userID, Username: "alice"})

		s.recorder.Record(ctx, ActionBookCreated, "Dune")

		events, err := s.store.ListRecent(context.Background(), 1)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(ActionBookCreated, events[0].Action)
		s.Equal("Dune", events[0].Subject)
		s.Equal("req-42", events[0].RequestID)
		s.Equal(userID, events[0].UserID)
		s.Equal(at, events[0].At)
	})

	s.Run("anonymous events carry a nil user", func() {
		s.recorder.Record(context.Background(), ActionLoginFailed, "ghost")

		events, err := s.store.ListRecent(context.Background(), 1)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(uuid.Nil, events[0].UserID)
	})
}

func (s *AuditSuite) TestCategories() {
	s.Equal(CategorySecurity, CategoryOf(ActionLoginFailed))
	s.Equal(CategoryCompliance, CategoryOf(ActionUserRegistered))
	s.Equal(CategoryOperations, CategoryOf(ActionBookDeleted))
}

func (s *AuditSuite) TestListRecent() {
	s.Run("returns newest first", func() {
		s.recorder.Record(context.Background(), ActionGenreCreated, "first")
		s.recorder.Record(context.Background(), ActionGenreCreated, "second")

		events, err := s.store.ListRecent(context.Background(), 2)
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal("second", events[0].Subject)
	})
}

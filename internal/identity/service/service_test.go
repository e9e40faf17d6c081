package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"biblio/internal/identity/credentials"
	sessionstore "biblio/internal/identity/store/session"
	userstore "biblio/internal/identity/store/user"
	"biblio/internal/platform/metrics"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/audit"
	"biblio/pkg/requestcontext"
)

type IdentityServiceSuite struct {
	suite.Suite
	svc      *Service
	users    *userstore.InMemoryStore
	sessions *sessionstore.InMemoryStore
	now      time.Time
}

func (s *IdentityServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.users = userstore.NewInMemory()
	s.sessions = sessionstore.NewInMemory()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc = New(
		s.users,
		s.sessions,
		credentials.NewHasher(1<<4),
		audit.NewRecorder(audit.NewInMemory(), logger),
		logger,
		metrics.New(prometheus.NewRegistry()),
		time.Hour,
	)
}

func (s *IdentityServiceSuite) SetupSubTest() {
	s.SetupTest()
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *IdentityServiceSuite) register(username, password string) {
	errs, err := s.svc.Register(s.at(s.now), username, password)
	s.Require().NoError(err)
	s.Require().False(errs.HasErrors())
}

func (s *IdentityServiceSuite) TestRegister() {
	s.Run("persists a new identity with a derived hash", func() {
		s.register("alice", "s3cret")

		stored, err := s.users.FindByUsername(context.Background(), "alice")
		s.Require().NoError(err)
		s.NotEqual("s3cret", stored.PasswordHash)
		s.NotEmpty(stored.Salt)
	})

	s.Run("rejects blank username and password", func() {
		errs, err := s.svc.Register(s.at(s.now), "  ", "")
		s.Require().NoError(err)
		s.Equal("username must be not empty", errs.For("username"))
		s.Equal("password must be not empty", errs.For("password"))
	})

	s.Run("rejects a duplicate username", func() {
		s.register("bob", "pw1")

		errs, err := s.svc.Register(s.at(s.now), "bob", "pw2")
		s.Require().NoError(err)
		s.Equal("Username already used", errs.For("username"))
	})

	s.Run("usernames differing only in case are distinct", func() {
		s.register("Carol", "pw")

		errs, err := s.svc.Register(s.at(s.now), "carol", "pw")
		s.Require().NoError(err)
		s.False(errs.HasErrors())
	})
}

func (s *IdentityServiceSuite) TestLogin() {
	s.Run("valid credentials produce a persisted session", func() {
		s.register("alice", "s3cret")

		sess, err := s.svc.Login(s.at(s.now), "alice", "s3cret")
		s.Require().NoError(err)
		s.NotEmpty(sess.Token)

		principal, ok, err := s.svc.Resolve(s.at(s.now), sess.Token)
		s.Require().NoError(err)
		s.True(ok)
		s.Equal("alice", principal.Username)
	})

	s.Run("wrong password and unknown user fail identically", func() {
		s.register("alice", "s3cret")

		_, errWrongPw := s.svc.Login(s.at(s.now), "alice", "nope")
		_, errNoUser := s.svc.Login(s.at(s.now), "mallory", "nope")

		s.Require().ErrorIs(errWrongPw, ErrBadCredentials)
		s.Require().ErrorIs(errNoUser, ErrBadCredentials)
		s.Equal(dErrors.Message(errWrongPw), dErrors.Message(errNoUser))
	})

	s.Run("each login issues a fresh token", func() {
		s.register("alice", "s3cret")

		first, err := s.svc.Login(s.at(s.now), "alice", "s3cret")
		s.Require().NoError(err)
		second, err := s.svc.Login(s.at(s.now), "alice", "s3cret")
		s.Require().NoError(err)

		s.NotEqual(first.Token, second.Token)
	})
}

func (s *IdentityServiceSuite) TestResolve() {
	s.Run("unknown token resolves unauthenticated without error", func() {
		_, ok, err := s.svc.Resolve(s.at(s.now), "missing")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("empty token resolves unauthenticated", func() {
		_, ok, err := s.svc.Resolve(s.at(s.now), "")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("expired session resolves unauthenticated", func() {
		s.register("alice", "s3cret")
		sess, err := s.svc.Login(s.at(s.now), "alice", "s3cret")
		s.Require().NoError(err)

		_, ok, err := s.svc.Resolve(s.at(s.now.Add(2*time.Hour)), sess.Token)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("session survives just under the TTL", func() {
		s.register("alice", "s3cret")
		sess, err := s.svc.Login(s.at(s.now), "alice", "s3cret")
		s.Require().NoError(err)

		_, ok, err := s.svc.Resolve(s.at(s.now.Add(59*time.Minute)), sess.Token)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("dangling identity resolves unauthenticated", func() {
		s.register("alice", "s3cret")
		sess, err := s.svc.Login(s.at(s.now), "alice", "s3cret")
		s.Require().NoError(err)

		stored, err := s.users.FindByUsername(context.Background(), "alice")
		s.Require().NoError(err)
		s.users.Delete(context.Background(), stored.ID)

		_, ok, err := s.svc.Resolve(s.at(s.now), sess.Token)
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *IdentityServiceSuite) TestLogout() {
	s.Run("invalidates the session", func() {
		s.register("alice", "s3cret")
		sess, err := s.svc.Login(s.at(s.now), "alice", "s3cret")
		s.Require().NoError(err)

		s.Require().NoError(s.svc.Logout(s.at(s.now), sess.Token))

		_, ok, err := s.svc.Resolve(s.at(s.now), sess.Token)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("logging out an empty token is a no-op", func() {
		s.NoError(s.svc.Logout(s.at(s.now), ""))
	})
}

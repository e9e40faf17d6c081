//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"biblio/internal/identity/models"
	"biblio/internal/identity/store/session"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/requestcontext"
	"biblio/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.StartRedis(s.T())
	s.store = session.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	sess := models.Session{Token: uuid.NewString(), UserID: uuid.New(), Device: "Firefox on Linux"}

	s.Require().NoError(s.store.Save(ctx, sess, time.Hour))

	found, err := s.store.Find(ctx, sess.Token)
	s.Require().NoError(err)
	s.Equal(sess.UserID, found.UserID)
	s.Equal("Firefox on Linux", found.Device)
}

func (s *RedisStoreSuite) TestUnknownToken() {
	_, err := s.store.Find(context.Background(), "missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestExpiryAgainstPinnedClock() {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	saveCtx := requestcontext.WithTime(context.Background(), now)

	sess := models.Session{Token: uuid.NewString(), UserID: uuid.New()}
	s.Require().NoError(s.store.Save(saveCtx, sess, time.Hour))

	lateCtx := requestcontext.WithTime(context.Background(), now.Add(2*time.Hour))
	_, err := s.store.Find(lateCtx, sess.Token)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()
	sess := models.Session{Token: uuid.NewString(), UserID: uuid.New()}
	s.Require().NoError(s.store.Save(ctx, sess, time.Hour))

	s.Require().NoError(s.store.Delete(ctx, sess.Token))

	_, err := s.store.Find(ctx, sess.Token)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"biblio/internal/identity/models"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/requestcontext"
)

const keyPrefix = "session:"

// RedisStore persists sessions in Redis, leaning on native key TTLs for
// expiry. The ExpiresAt field is still checked on read so a request with a
// pinned clock observes the same expiry the in-memory store would.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, sess models.Session, ttl time.Duration) error {
	sess.ExpiresAt = requestcontext.Now(ctx).Add(ttl)
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sess.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, token string) (models.Session, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, sentinel.ErrNotFound
		}
		return models.Session{}, fmt.Errorf("find session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return models.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if sess.ExpiredAt(requestcontext.Now(ctx)) {
		return models.Session{}, sentinel.ErrNotFound
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

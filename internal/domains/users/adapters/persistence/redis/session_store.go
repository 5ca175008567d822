package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "marketplace:session:"

// SessionStore keeps session tokens in Redis with a native TTL.
type SessionStore struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewSessionStore(client goredis.Cmdable, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, prefix: DefaultKeyPrefix, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, token, userID string) error {
	token = strings.TrimSpace(token)
	if token == "" || strings.TrimSpace(userID) == "" {
		return errors.New("user id and token are required")
	}
	return s.client.Set(ctx, s.key(token), userID, s.ttl).Err()
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ports.ErrSessionNotFound
		}
		return "", err
	}
	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) key(token string) string {
	return s.prefix + strings.TrimSpace(token)
}

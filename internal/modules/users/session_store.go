package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"motogo-backend/internal/models"
	"motogo-backend/pkg/utils"
)

// SessionStore persists opaque session tokens with a TTL. It backs refresh
// and logout; access itself is authorized by the short-lived JWT.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}

// RedisSessionStore keeps sessions in Redis so any instance can serve a
// refresh, with expiry handled by key TTLs.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return "", fmt.Errorf("session.Create: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session.Create: %w", err)
	}
	return token, nil
}

// Lookup resolves a session token to its user id. Expired or unknown tokens
// return ErrInvalidToken.
func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", models.ErrInvalidToken
		}
		return "", fmt.Errorf("session.Lookup: %w", err)
	}
	return userID, nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("session.Destroy: %w", err)
	}
	return nil
}

package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/qalamart/storeapi/pkg/errors"
)

const sessionKeyPrefix = "session:"

type sessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a Redis-backed admin session store
func NewSessionStore(client *redis.Client, ttl time.Duration) *sessionStore {
	return &sessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *sessionStore) Create(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()
	key := sessionKeyPrefix + token

	if err := s.client.Set(ctx, key, username, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session: %w", err)
	}

	return token, nil
}

func (s *sessionStore) Lookup(ctx context.Context, token string) (string, error) {
	key := sessionKeyPrefix + token

	username, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", &errors.ErrUnauthorized{Message: "invalid or expired session"}
		}
		return "", fmt.Errorf("redis get session: %w", err)
	}

	return username, nil
}

func (s *sessionStore) Delete(ctx context.Context, token string) error {
	key := sessionKeyPrefix + token

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}

	return nil
}

package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
)

const cartKeyPrefix = "cart:"

type cartStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCartStore creates a Redis-backed cart snapshot store
func NewCartStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *cartStore {
	return &cartStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get loads the cart snapshot for the session. A missing or malformed
// snapshot falls back to an empty cart; a malformed one is discarded so it
// does not poison later saves.
func (s *cartStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	key := cartKeyPrefix + sessionID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.NewCart(), nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Warn("Discarding malformed cart snapshot",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		s.client.Del(ctx, key)
		return domain.NewCart(), nil
	}

	if cart.Lines == nil {
		cart.Lines = []domain.CartLine{}
	}

	return &cart, nil
}

// Save persists the full cart snapshot with the configured TTL
func (s *cartStore) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	key := cartKeyPrefix + sessionID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the cart snapshot for the session
func (s *cartStore) Delete(ctx context.Context, sessionID string) error {
	key := cartKeyPrefix + sessionID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}

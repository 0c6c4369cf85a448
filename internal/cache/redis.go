package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the cart snapshot under a single redis key.
// A zero ttl keeps the snapshot until it is cleared.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    cart.SnapshotKey,
		ttl:    ttl,
	}
}

func (r *RedisStore) Load(ctx context.Context) ([]domain.CartItem, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	return cart.Decode(data)
}

func (r *RedisStore) Save(ctx context.Context, items []domain.CartItem) error {
	payload, err := cart.Encode(items)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, string(payload), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

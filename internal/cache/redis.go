// Package cache persists catalog snapshots to Redis so the back office
// can render the last known inventory before the remote service answers.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kasir-backoffice/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores the full product snapshot as a single JSON value.
// Writes replace the previous snapshot wholesale.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Write serializes the snapshot under the namespace key. Snapshots do not
// expire; a stale snapshot is still more useful than an empty screen.
func (c *RedisCache) Write(ctx context.Context, namespace string, products []domain.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.client.Set(ctx, namespace, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// Read returns the cached snapshot. The second return value reports whether
// a snapshot existed at all, so callers can tell "empty" from "never written".
func (c *RedisCache) Read(ctx context.Context, namespace string) ([]domain.Product, bool, error) {
	payload, err := c.client.Get(ctx, namespace).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return products, true, nil
}

// Ping verifies connectivity, used by the health endpoint.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

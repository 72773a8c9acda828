package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/injlabs/marketlens/internal/domain"
)

// KVStore implements domain.CacheStore on plain Redis string keys. Callers
// own the key namespace (orderbook analyses, auth nonces, NFT ownership
// entries all share this store with distinct prefixes).
type KVStore struct {
	rdb *redis.Client
}

// NewKVStore creates a KVStore backed by the given Client.
func NewKVStore(c *Client) *KVStore {
	return &KVStore{rdb: c.Underlying()}
}

// Get retrieves the value stored at key. It returns domain.ErrNotFound when
// the key does not exist or has expired.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("redis: get %s: %w", key, err)
	}
	return val, nil
}

// SetWithExpiry stores value at key with the given TTL. Concurrent writers
// of the same key overwrite each other; last write wins with a fresh TTL.
func (s *KVStore) SetWithExpiry(ctx context.Context, key string, ttl time.Duration, value string) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.CacheStore = (*KVStore)(nil)

package domain

import (
	"context"
	"time"
)

// CacheStore is a string key-value store with per-key expiry. Get returns
// ErrNotFound for absent or expired keys.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithExpiry(ctx context.Context, key string, ttl time.Duration, value string) error
	Delete(ctx context.Context, key string) error
}

// RateLimiter provides distributed request rate limiting. Allow reports
// whether a request for key is permitted under limit requests per window,
// counting the request when it is.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

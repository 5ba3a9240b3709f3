package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface. Values are stored as JSON, so
// Get decodes into any pointer that the stored value marshals into.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Close() error
}

// GetOrCompute returns the cached value for key or computes, stores and
// returns it. A failed Set does not fail the call. hit reports whether the
// value came from the cache.
func GetOrCompute[T any](ctx context.Context, c Service, key string, ttl time.Duration, compute func() (T, error)) (val T, hit bool, err error) {
	if err := c.Get(ctx, key, &val); err == nil {
		return val, true, nil
	}
	val, err = compute()
	if err != nil {
		return val, false, err
	}
	_ = c.Set(ctx, key, val, ttl)
	return val, false, nil
}

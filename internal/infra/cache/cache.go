package cache

import (
	"context"
	"errors"
	"time"
)

var errEmptyKey = errors.New("key cannot be empty")

// Store is a byte-valued cache with per-entry TTL. Get returns nil, nil on a
// miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

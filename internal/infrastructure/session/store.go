package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no value exists for a session key,
// or when the stored value has expired.
var ErrNotFound = errors.New("session: not found")

// Store keeps per-operator working state between requests. Values are
// opaque bytes; callers own the serialization. Every Put refreshes the
// entry's TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

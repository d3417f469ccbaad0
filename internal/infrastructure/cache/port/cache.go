package port

import (
	"context"
	"time"
)

// Cache is the contract for the fast store. Implementations must be safe
// for concurrent use and every operation must be atomic per key, since
// many sessions coordinate only through these primitives.
//
// Values are strings to keep the port free of serialization concerns;
// repositories layered on top own the JSON encoding.
type Cache interface {
	// Get fetches the value for key, returning ErrMiss when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key with the provided TTL. Zero or negative TTL
	// means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes one or more keys and returns the number of keys removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// PushList appends values to the list at key, preserving arrival order.
	PushList(ctx context.Context, key string, values ...string) error

	// ListRange returns the full list at key, oldest first. A missing key
	// yields an empty slice, not an error.
	ListRange(ctx context.Context, key string) ([]string, error)

	// AddSet adds members to the set at key.
	AddSet(ctx context.Context, key string, members ...string) error

	// RemoveSet removes members from the set at key.
	RemoveSet(ctx context.Context, key string, members ...string) error

	// SetMembers returns the set at key; empty slice when absent.
	SetMembers(ctx context.Context, key string) ([]string, error)

	// SetCard returns the cardinality of the set at key.
	SetCard(ctx context.Context, key string) (int64, error)

	// Ping verifies connectivity with the cache backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// ErrMiss signals an absent key in a typed way so callers can tell misses
// apart from transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }

package cache

import (
	"errors"
	"time"
)

// Sentinel errors for cache construction.
var (
	ErrInvalidCapacity = errors.New("cache: capacity must be positive")
	ErrInvalidTTL      = errors.New("cache: ttl must be positive")
)

// EvictReason describes why an entry left the cache.
type EvictReason int

const (
	// EvictCapacity means the entry was the oldest when a new key needed room.
	EvictCapacity EvictReason = iota
	// EvictExpired means the entry outlived its TTL.
	EvictExpired
)

// String returns the string representation of the reason.
func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Cache is a bounded key/value store with per-entry expiration.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Blocking: no method blocks on anything but the store's own mutex.
// - Errors: Get never errors; it returns (zero, false) on miss or expiry.
type Cache[V any] interface {
	// Get retrieves a live value. Reads never affect ordering or TTL.
	Get(key string) (V, bool)

	// Has reports whether key holds a live value.
	Has(key string) bool

	// Set inserts key as the newest entry with a fresh TTL.
	Set(key string, value V)

	// Delete removes key. Idempotent - no error on miss.
	Delete(key string)

	// Size returns the number of live entries.
	Size() int

	// Clear removes every entry immediately.
	Clear()
}

// Ensure FIFOCache implements Cache
var _ Cache[string] = (*FIFOCache[string])(nil)

// ValidateConfig checks constructor arguments shared by the cache implementations.
func ValidateConfig(capacity int, ttl time.Duration) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	return nil
}

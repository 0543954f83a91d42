// Package cache provides content-addressed caching for atlas builds.
//
// Two kinds of values are cached: decoded source images (keyed by the hash
// of the encoded file bytes) and packing results (keyed by the catalog hash
// and the packing parameters). Both are pure functions of their key, so the
// entries never go stale and TTLs only bound disk usage.
//
// [FileCache] is used by the CLI and stores zstd-compressed entries under the
// XDG cache directory. [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// TTLs for cached values.
const (
	TTLImage = 30 * 24 * time.Hour
	TTLPack  = 30 * 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypeImage = "image"
	KeyTypePack  = "pack"
)

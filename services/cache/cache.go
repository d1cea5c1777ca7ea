// Package cache provides the small key-value store backing per-seller
// cool-down blocks.
package cache

import (
	"time"
)

// CacheService is a byte-value cache with per-key expiry.
type CacheService interface {
	// Get retrieves a value; it errors when the key is absent or expired.
	Get(key string) ([]byte, error)

	// Set stores a value that expires after the given duration.
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a key.
	Delete(key string) error
}

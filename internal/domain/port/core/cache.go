package core

import (
	"context"
	"time"
)

// Cache is a small key/value cache for read-mostly data such as
// network registries and gas prices
type Cache interface {
	// Get loads the value stored under key into dest, reporting whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key for ttl, zero ttl means no expiry
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes key
	Delete(ctx context.Context, key string) error
}

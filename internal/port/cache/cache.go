// Package cache defines the port interface for short-lived key-value storage.
// The acquisition core itself is stateless; caches back transport-level
// concerns such as request idempotency and recent-result reuse.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the port interface for key-value caching with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ResultKey builds the cache key for a completed acquisition, scoped by the
// full platform/connection/project identity so distinct targets never
// collide.
func ResultKey(platform, connectionID, projectID string) string {
	return fmt.Sprintf("acquisition:%s:%s:%s", platform, connectionID, projectID)
}

// IdempotencyKey builds the cache key for a client-supplied idempotency
// token.
func IdempotencyKey(token string) string {
	return "idempotency:" + token
}

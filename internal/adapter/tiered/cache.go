// Package tiered combines an in-process L1 cache with a remote L2 cache.
// Reads prefer L1 and backfill it from L2; writes and deletes go to both
// levels so the process-local view never outlives the shared one.
package tiered

import (
	"context"
	"time"

	"github.com/briefdeck/briefdeck/internal/port/cache"
)

// Cache layers two cache.Cache backends.
type Cache struct {
	l1        cache.Cache
	l2        cache.Cache
	l1MaxLife time.Duration
}

// New creates a tiered cache. l1MaxLife bounds how long entries backfilled
// from L2 stay in L1, regardless of their original TTL.
func New(l1, l2 cache.Cache, l1MaxLife time.Duration) *Cache {
	return &Cache{l1: l1, l2: l2, l1MaxLife: l1MaxLife}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, found, err := c.l1.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		return val, true, nil
	}

	val, found, err = c.l2.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	_ = c.l1.Set(ctx, key, val, c.l1MaxLife)
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.l1.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.l2.Set(ctx, key, value, ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.l1.Delete(ctx, key); err != nil {
		return err
	}
	return c.l2.Delete(ctx, key)
}

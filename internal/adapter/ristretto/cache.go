// Package ristretto implements the cache port with dgraph-io/ristretto as an
// in-process cache. Used standalone when no Redis is configured, or as the L1
// level of the tiered cache.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a ristretto-backed in-process cache keyed by raw bytes cost.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates the cache. maxCostBytes bounds the total size of cached
// payloads; acquisition results are a few KB each, so a small budget holds
// thousands of entries.
func New(maxCostBytes int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := c.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(value)), ttl)
	// Admission is async; wait so a Set followed by a Get observes the
	// entry. Acquisition cache writes are rare enough that this is cheap.
	c.c.Wait()
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

// Close releases the cache's internal goroutines.
func (c *Cache) Close() {
	c.c.Close()
}

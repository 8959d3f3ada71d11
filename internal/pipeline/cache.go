package pipeline

import (
	"fmt"

	"github.com/dgraph-io/ristretto"

	"poolScope/internal/model"
)

// PoolCache memoizes derived pools across runs. Keys combine the pool's id and
// version with a digest of everything else the derivation reads. Every entry
// costs 1, so the capacity is a pool count.
type PoolCache struct {
	store *ristretto.Cache
}

// NewPoolCache creates a cache holding up to maxItems pools.
func NewPoolCache(maxItems int64) (*PoolCache, error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("cache size must be greater than zero")
	}
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxItems * 10,
		MaxCost:            maxItems,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &PoolCache{store: store}, nil
}

func (c *PoolCache) Get(key string) (model.ParsedPool, bool) {
	if c == nil {
		return model.ParsedPool{}, false
	}
	value, ok := c.store.Get(key)
	if !ok {
		return model.ParsedPool{}, false
	}
	pool, ok := value.(model.ParsedPool)
	return pool, ok
}

func (c *PoolCache) Set(key string, pool model.ParsedPool) {
	if c == nil {
		return
	}
	c.store.Set(key, pool, 1)
}

// Wait blocks until pending sets are applied.
func (c *PoolCache) Wait() {
	if c == nil {
		return
	}
	c.store.Wait()
}

func (c *PoolCache) Close() {
	if c == nil {
		return
	}
	c.store.Close()
}

// poolCacheKey returns false for pools without an object version, whose
// content can change under the same id.
func poolCacheKey(pool model.PoolRecord, inputs string) (string, bool) {
	if pool.Version == 0 {
		return "", false
	}
	return fmt.Sprintf("%s@%d/%s", pool.PoolID, pool.Version, inputs), true
}

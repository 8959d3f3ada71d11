package chain

import (
	"sync"

	"poolScope/internal/model"
)

// CoinMeta is the cached metadata of a coin type.
type CoinMeta = model.AssetDescriptor

// CoinMetaCache caches coin metadata by coin type.
type CoinMetaCache struct {
	mu   sync.RWMutex
	data map[string]CoinMeta
}

func NewCoinMetaCache() *CoinMetaCache {
	return &CoinMetaCache{data: make(map[string]CoinMeta)}
}

func (c *CoinMetaCache) Get(coinType string) (CoinMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[coinType]
	c.mu.RUnlock()
	return meta, ok
}

func (c *CoinMetaCache) Set(coinType string, meta CoinMeta) {
	c.mu.Lock()
	c.data[coinType] = meta
	c.mu.Unlock()
}

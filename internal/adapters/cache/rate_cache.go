package cache

import (
	"fmt"
	"fxhistory/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoRateCache keeps stored rates by triple. Stored rates are never mutated,
// so entries need no invalidation.
type RistrettoRateCache struct {
	cache *ristretto.Cache
}

const defaultMaxItems = 10000

func NewRateCache(maxItems int64) (*RistrettoRateCache, error) {
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c}, nil
}

func (c *RistrettoRateCache) Get(triple domain.Triple) (domain.ExchangeRate, bool) {
	if v, ok := c.cache.Get(toKey(triple)); ok {
		rate, ok := v.(domain.ExchangeRate)
		return rate, ok
	}
	return domain.ExchangeRate{}, false
}

func (c *RistrettoRateCache) Set(rate domain.ExchangeRate) {
	key := toKey(domain.Triple{Source: rate.Source, Target: rate.Target, Date: rate.ValuationDate})
	c.cache.Set(key, rate, 1)
}

func (c *RistrettoRateCache) Close() { c.cache.Close() }

func toKey(t domain.Triple) string { return t.String() }

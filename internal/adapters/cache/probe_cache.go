package cache

import (
	"fmt"
	"fxsync/internal/domain"
	"time"

	"github.com/dgraph-io/ristretto"
)

// RistrettoProbeCache remembers what the rate source answered for a date.
type RistrettoProbeCache struct {
	cache *ristretto.Cache
}

func NewProbeCache(maxItems int64) (*RistrettoProbeCache, error) {
	if maxItems <= 0 {
		maxItems = 256
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create probe cache failed: %w", err)
	}
	return &RistrettoProbeCache{cache: c}, nil
}

func (c *RistrettoProbeCache) Get(date time.Time) (domain.FetchResult, bool) {
	if v, ok := c.cache.Get(toKey(date)); ok {
		res, ok := v.(domain.FetchResult)
		return res, ok
	}
	return domain.FetchResult{}, false
}

func (c *RistrettoProbeCache) Set(date time.Time, res domain.FetchResult) {
	c.cache.Set(toKey(date), res, 1)
}

func (c *RistrettoProbeCache) Close() { c.cache.Close() }

func toKey(date time.Time) string { return date.Format(domain.SourceDateLayout) }

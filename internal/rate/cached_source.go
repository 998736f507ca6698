package rate

import (
	"context"
	"fxsync/internal/adapters"
	"fxsync/internal/domain"
	"time"
)

// CachedSource serves answers for past dates from a cache. Past dates are
// final at the provider, today's table may still be published later, so
// today is always fetched. Failures are never cached.
type CachedSource struct {
	source adapters.RateSource
	cache  adapters.ProbeCache
	now    func() time.Time
}

func (c *CachedSource) FetchRates(ctx context.Context, date time.Time) (domain.FetchResult, error) {
	past := date.Before(domain.Truncate(c.now().In(date.Location())))
	if past {
		if res, ok := c.cache.Get(date); ok {
			return res, nil
		}
	}

	res, err := c.source.FetchRates(ctx, date)
	if err != nil {
		return domain.FetchResult{}, err
	}
	if past {
		c.cache.Set(date, res)
	}
	return res, nil
}

func NewCachedSource(source adapters.RateSource, cache adapters.ProbeCache, now func() time.Time) *CachedSource {
	if now == nil {
		now = time.Now
	}
	return &CachedSource{source: source, cache: cache, now: now}
}

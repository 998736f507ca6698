package rate

import (
	"context"
	"fmt"
	"fxsync/internal/adapters"
	"fxsync/internal/domain"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultMaxLookbackDays = 10

// FetchFunc fetches the rate table for one calendar date.
type FetchFunc func(ctx context.Context, date time.Time) (domain.FetchResult, error)

// LocateLatest walks back one calendar day at a time from today, at most
// maxLookback probes, and returns the first date with a non-empty valid table.
// "No data" answers and source failures both move on to the previous day;
// a failed date is never retried.
func LocateLatest(ctx context.Context, execID string, fetch FetchFunc, today time.Time, maxLookback int) (domain.RateTable, error) {
	if maxLookback < 1 {
		maxLookback = 1
	}
	today = domain.Truncate(today)

	for i := 0; i < maxLookback; i++ {
		date := today.AddDate(0, 0, -i)
		log := logrus.WithFields(logrus.Fields{"exec_id": execID, "date": date.Format(domain.SourceDateLayout)})

		res, err := fetch(ctx, date)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.RateTable{}, ctxErr
			}
			log.WithError(err).Warn("Rate source call failed, trying the previous day")
			continue
		}
		if res.Status == domain.FetchValid && len(res.Quotes) > 0 {
			log.Infof("Rates found, %d quotes published", len(res.Quotes))
			return domain.RateTable{AsOf: date, Quotes: res.Quotes}, nil
		}
		log.Info("No rates published for this date, skipping")
	}

	return domain.RateTable{}, fmt.Errorf("%w: %d days back from %s", domain.ErrExhaustedLookback, maxLookback, today.Format(domain.DateLayout))
}

// Locator binds LocateLatest to a rate source, a lookback policy and a clock.
type Locator struct {
	source      adapters.RateSource
	maxLookback int
	now         func() time.Time
}

func (l *Locator) LocateLatest(ctx context.Context, execID string) (domain.RateTable, error) {
	return LocateLatest(ctx, execID, l.source.FetchRates, l.now(), l.maxLookback)
}

func NewLocator(source adapters.RateSource, maxLookback int, now func() time.Time) *Locator {
	if maxLookback <= 0 {
		maxLookback = DefaultMaxLookbackDays
	}
	if now == nil {
		now = time.Now
	}
	return &Locator{source: source, maxLookback: maxLookback, now: now}
}

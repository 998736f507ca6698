package rate

import (
	"context"
	"fmt"
	"fxsync/internal/adapters"
	"fxsync/internal/domain"
	"time"

	"github.com/sirupsen/logrus"
)

type HistoricalStore struct {
	repo   adapters.HistoricalRateRepository
	window domain.RetentionWindow
}

// AppendDay records the quotes of asOf once per currency and trims the log
// to the retention window. Re-running it for the same day changes nothing.
func (s *HistoricalStore) AppendDay(ctx context.Context, execID string, asOf time.Time, raw []domain.RawQuote) (domain.BatchSummary, error) {
	log := logrus.WithField("exec_id", execID)
	quotes, skipped := normalizeQuotes(asOf, raw)

	summary := domain.BatchSummary{AsOf: asOf}
	for _, item := range skipped {
		log.WithField("currency", item.CurrencyCode).Warnf("Skipping quote: %s", item.Reason)
		summary.Add(item)
	}

	// retention runs even without new quotes
	items, purged, err := s.repo.AppendDay(ctx, quotes, s.window)
	if err != nil {
		return domain.BatchSummary{}, fmt.Errorf("failed to append historical rates: %w", err)
	}
	for _, item := range items {
		summary.Add(item)
	}
	summary.Purged = purged

	if summary.Duplicates > 0 {
		log.Infof("%d historical rates were already recorded for %s", summary.Duplicates, asOf.Format(domain.DateLayout))
	}
	if purged > 0 {
		log.Infof("%d historical rows older than the %d day window were purged", purged, s.window.Dates)
	}
	log.Infof("%d historical rates recorded for %s", summary.Written, asOf.Format(domain.DateLayout))
	return summary, nil
}

func NewHistoricalStore(repo adapters.HistoricalRateRepository, window domain.RetentionWindow) *HistoricalStore {
	return &HistoricalStore{repo: repo, window: window}
}

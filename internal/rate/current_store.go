package rate

import (
	"context"
	"fmt"
	"fxsync/internal/adapters"
	"fxsync/internal/domain"
	"time"

	"github.com/sirupsen/logrus"
)

type CurrentStore struct {
	repo adapters.CurrentRateRepository
}

// ReplaceSnapshot overwrites the current rate of every well formed quote.
// Malformed quotes are skipped; the rest is written atomically.
func (s *CurrentStore) ReplaceSnapshot(ctx context.Context, execID string, asOf time.Time, raw []domain.RawQuote, writtenAt time.Time) (domain.BatchSummary, error) {
	log := logrus.WithField("exec_id", execID)
	quotes, skipped := normalizeQuotes(asOf, raw)

	summary := domain.BatchSummary{AsOf: asOf}
	for _, item := range skipped {
		log.WithField("currency", item.CurrencyCode).Warnf("Skipping quote: %s", item.Reason)
		summary.Add(item)
	}

	if len(quotes) > 0 {
		if err := s.repo.ReplaceSnapshot(ctx, quotes, writtenAt); err != nil {
			return domain.BatchSummary{}, fmt.Errorf("failed to replace current rates: %w", err)
		}
	}
	for _, q := range quotes {
		summary.Add(domain.ItemResult{CurrencyCode: q.CurrencyCode, Status: domain.ItemWritten})
	}

	log.Infof("%d current rates updated as of %s at %s", summary.Written, asOf.Format(domain.DateLayout), writtenAt.Format(time.DateTime))
	return summary, nil
}

func NewCurrentStore(repo adapters.CurrentRateRepository) *CurrentStore {
	return &CurrentStore{repo: repo}
}

package adapters

import (
	"context"
	"fxsync/internal/domain"
	"time"
)

// RateSource fetches the rate table published for a calendar date.
type RateSource interface {
	FetchRates(ctx context.Context, date time.Time) (domain.FetchResult, error)
}

type CurrentRateRepository interface {
	ReplaceSnapshot(ctx context.Context, quotes []domain.Quote, writtenAt time.Time) error
	GetAll(ctx context.Context) ([]domain.CurrentRate, error)
	GetByCode(ctx context.Context, code string) (domain.CurrentRate, error)
}

type HistoricalRateRepository interface {
	// AppendDay inserts quotes and trims the log to the window in one transaction.
	// Quotes already recorded for their date come back as duplicate items.
	AppendDay(ctx context.Context, quotes []domain.Quote, window domain.RetentionWindow) ([]domain.ItemResult, int64, error)
	GetRange(ctx context.Context, code string, from, to time.Time) ([]domain.HistoricalRate, error)
}

type ProbeCache interface {
	Get(date time.Time) (domain.FetchResult, bool)
	Set(date time.Time, res domain.FetchResult)
}

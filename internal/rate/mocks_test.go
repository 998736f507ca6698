package rate

import (
	"context"
	"time"

	"fxsync/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- Testify mocks ---

type MockRateSource struct{ mock.Mock }

func (m *MockRateSource) FetchRates(ctx context.Context, date time.Time) (domain.FetchResult, error) {
	args := m.Called(ctx, date)
	res, _ := args.Get(0).(domain.FetchResult)
	return res, args.Error(1)
}

type MockCurrentRateRepository struct{ mock.Mock }

func (m *MockCurrentRateRepository) ReplaceSnapshot(ctx context.Context, quotes []domain.Quote, writtenAt time.Time) error {
	args := m.Called(ctx, quotes, writtenAt)
	return args.Error(0)
}

func (m *MockCurrentRateRepository) GetAll(ctx context.Context) ([]domain.CurrentRate, error) {
	args := m.Called(ctx)
	rates, _ := args.Get(0).([]domain.CurrentRate)
	return rates, args.Error(1)
}

func (m *MockCurrentRateRepository) GetByCode(ctx context.Context, code string) (domain.CurrentRate, error) {
	args := m.Called(ctx, code)
	rate, _ := args.Get(0).(domain.CurrentRate)
	return rate, args.Error(1)
}

type MockHistoricalRateRepository struct{ mock.Mock }

func (m *MockHistoricalRateRepository) AppendDay(ctx context.Context, quotes []domain.Quote, window domain.RetentionWindow) ([]domain.ItemResult, int64, error) {
	args := m.Called(ctx, quotes, window)
	items, _ := args.Get(0).([]domain.ItemResult)
	purged, _ := args.Get(1).(int64)
	return items, purged, args.Error(2)
}

func (m *MockHistoricalRateRepository) GetRange(ctx context.Context, code string, from, to time.Time) ([]domain.HistoricalRate, error) {
	args := m.Called(ctx, code, from, to)
	history, _ := args.Get(0).([]domain.HistoricalRate)
	return history, args.Error(1)
}

type MockProbeCache struct{ mock.Mock }

func (m *MockProbeCache) Get(date time.Time) (domain.FetchResult, bool) {
	args := m.Called(date)
	res, _ := args.Get(0).(domain.FetchResult)
	return res, args.Bool(1)
}

func (m *MockProbeCache) Set(date time.Time, res domain.FetchResult) {
	m.Called(date, res)
}

type MockSyncRunner struct{ mock.Mock }

func (m *MockSyncRunner) Run(ctx context.Context, mode domain.SyncMode) (domain.BatchSummary, error) {
	args := m.Called(ctx, mode)
	summary, _ := args.Get(0).(domain.BatchSummary)
	return summary, args.Error(1)
}

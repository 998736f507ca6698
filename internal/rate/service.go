package rate

import (
	"context"
	"fxsync/internal/adapters"
	"fxsync/internal/domain"
	"time"
)

// Service serves the stored rates to the HTTP API.
type Service struct {
	currentRepo    adapters.CurrentRateRepository
	historicalRepo adapters.HistoricalRateRepository
}

func (s *Service) ListCurrent(ctx context.Context) ([]domain.CurrentRate, error) {
	return s.currentRepo.GetAll(ctx)
}

func (s *Service) GetCurrent(ctx context.Context, code string) (domain.CurrentRate, error) {
	return s.currentRepo.GetByCode(ctx, code)
}

func (s *Service) GetHistory(ctx context.Context, code string, from, to time.Time) ([]domain.HistoricalRate, error) {
	return s.historicalRepo.GetRange(ctx, code, from, to)
}

func NewService(currentRepo adapters.CurrentRateRepository, historicalRepo adapters.HistoricalRateRepository) *Service {
	return &Service{currentRepo: currentRepo, historicalRepo: historicalRepo}
}

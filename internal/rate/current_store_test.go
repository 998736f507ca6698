package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"fxsync/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	asOf      = time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	writtenAt = time.Date(2024, 3, 8, 14, 30, 0, 0, time.UTC)
)

func TestCurrentStore_ReplaceSnapshot_SkipsMalformedAndWritesRest(t *testing.T) {
	repo := new(MockCurrentRateRepository)
	store := NewCurrentStore(repo)

	repo.On("ReplaceSnapshot", mock.Anything, mock.MatchedBy(func(quotes []domain.Quote) bool {
		return len(quotes) == 1 &&
			quotes[0].CurrencyCode == "USD" &&
			quotes[0].Rate.Equal(decimal.RequireFromString("1312.50")) &&
			quotes[0].AsOf.Equal(asOf)
	}), writtenAt).Return(nil).Once()

	summary, err := store.ReplaceSnapshot(context.Background(), "exec", asOf, []domain.RawQuote{
		{CurrencyCode: "USD", Rate: "1,312.50"},
		{CurrencyCode: "EUR"},
	}, writtenAt)

	require.NoError(t, err)
	require.Equal(t, 1, summary.Written)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, asOf, summary.AsOf)
	require.Len(t, summary.Items, 2)
	repo.AssertExpectations(t)
}

func TestCurrentStore_ReplaceSnapshot_NothingValid_DoesNotTouchRepo(t *testing.T) {
	repo := new(MockCurrentRateRepository)
	store := NewCurrentStore(repo)

	summary, err := store.ReplaceSnapshot(context.Background(), "exec", asOf, []domain.RawQuote{
		{CurrencyCode: "EUR", Rate: "n/a"},
	}, writtenAt)

	require.NoError(t, err)
	require.Zero(t, summary.Written)
	require.Equal(t, 1, summary.Skipped)
	repo.AssertNotCalled(t, "ReplaceSnapshot", mock.Anything, mock.Anything, mock.Anything)
}

func TestCurrentStore_ReplaceSnapshot_RepoError(t *testing.T) {
	repo := new(MockCurrentRateRepository)
	store := NewCurrentStore(repo)

	repo.On("ReplaceSnapshot", mock.Anything, mock.Anything, writtenAt).Return(errors.New("disk full")).Once()

	summary, err := store.ReplaceSnapshot(context.Background(), "exec", asOf, []domain.RawQuote{
		{CurrencyCode: "USD", Rate: "1,312.50"},
	}, writtenAt)

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to replace current rates")
	require.Equal(t, domain.BatchSummary{}, summary)
	repo.AssertExpectations(t)
}

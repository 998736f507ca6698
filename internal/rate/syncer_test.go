package rate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"fxsync/internal/adapters/sqlite"
	"fxsync/internal/domain"
	"fxsync/internal/platform/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeSource answers from a canned per-date table and counts calls.
type fakeSource struct {
	tables map[string][]domain.RawQuote
	calls  int
}

func (f *fakeSource) FetchRates(_ context.Context, d time.Time) (domain.FetchResult, error) {
	f.calls++
	quotes, ok := f.tables[d.Format(domain.SourceDateLayout)]
	if !ok {
		return domain.FetchResult{Status: domain.FetchNoData}, nil
	}
	return domain.FetchResult{Status: domain.FetchValid, Quotes: quotes}, nil
}

type syncFixture struct {
	db     *sql.DB
	source *fakeSource
	syncer *Syncer
}

func newSyncFixture(t *testing.T, tables map[string][]domain.RawQuote) *syncFixture {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "exchange_rate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.MigrateSQLite(ctx, sqlDB))

	clock := func() time.Time { return now }
	source := &fakeSource{tables: tables}
	syncer := NewSyncer(
		NewLocator(source, 10, clock),
		NewCurrentStore(sqlite.NewCurrentRateRepository(sqlDB)),
		NewHistoricalStore(sqlite.NewHistoricalRateRepository(sqlDB), domain.NewRetentionWindow(730)),
		clock,
	)
	return &syncFixture{db: sqlDB, source: source, syncer: syncer}
}

type tableDump struct {
	Current    [][4]string
	Historical [][3]string
}

func (f *syncFixture) dump(t *testing.T) tableDump {
	t.Helper()
	var d tableDump

	rows, err := f.db.Query(`select currency_code, cast(rate as text), as_of_date, written_at from current_rates order by currency_code`)
	require.NoError(t, err)
	for rows.Next() {
		var r [4]string
		require.NoError(t, rows.Scan(&r[0], &r[1], &r[2], &r[3]))
		d.Current = append(d.Current, r)
	}
	require.NoError(t, rows.Close())

	rows, err = f.db.Query(`select currency_code, cast(rate as text), record_date from historical_rates order by record_date, currency_code`)
	require.NoError(t, err)
	for rows.Next() {
		var r [3]string
		require.NoError(t, rows.Scan(&r[0], &r[1], &r[2]))
		d.Historical = append(d.Historical, r)
	}
	require.NoError(t, rows.Close())
	return d
}

func friday() map[string][]domain.RawQuote {
	return map[string][]domain.RawQuote{
		key(0): {
			{CurrencyCode: "USD", Rate: "1,312.50", Result: 1},
			{CurrencyCode: "EUR", Rate: "", Result: 1},
			{CurrencyCode: "JPY(100)", Rate: "882.71", Result: 1},
		},
	}
}

func TestSyncer_Run_Current_PersistsParsedRateAndSkipsMalformed(t *testing.T) {
	f := newSyncFixture(t, friday())

	summary, err := f.syncer.Run(context.Background(), domain.ModeCurrent)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Written)
	require.Equal(t, 1, summary.Skipped)

	usd, err := sqlite.NewCurrentRateRepository(f.db).GetByCode(context.Background(), "USD")
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("1312.50").Equal(usd.Rate))
	require.Equal(t, date(0).Format(domain.DateLayout), usd.AsOf.Format(domain.DateLayout))
	require.True(t, now.Equal(usd.WrittenAt))

	_, err = sqlite.NewCurrentRateRepository(f.db).GetByCode(context.Background(), "EUR")
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestSyncer_Run_Current_IsIdempotent(t *testing.T) {
	f := newSyncFixture(t, friday())
	ctx := context.Background()

	_, err := f.syncer.Run(ctx, domain.ModeCurrent)
	require.NoError(t, err)
	once := f.dump(t)

	_, err = f.syncer.Run(ctx, domain.ModeCurrent)
	require.NoError(t, err)
	require.Equal(t, once, f.dump(t))
	require.Len(t, once.Current, 2)
	require.Empty(t, once.Historical)
}

func TestSyncer_Run_DefaultModeIsCurrent(t *testing.T) {
	f := newSyncFixture(t, friday())

	_, err := f.syncer.Run(context.Background(), "")
	require.NoError(t, err)
	d := f.dump(t)
	require.Len(t, d.Current, 2)
	require.Empty(t, d.Historical)
}

func TestSyncer_Run_Historical_RerunAddsNothing(t *testing.T) {
	f := newSyncFixture(t, friday())
	ctx := context.Background()

	summary, err := f.syncer.Run(ctx, domain.ModeHistorical)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Written)
	first := f.dump(t)
	require.Len(t, first.Historical, 2)

	summary, err = f.syncer.Run(ctx, domain.ModeHistorical)
	require.NoError(t, err)
	require.Zero(t, summary.Written)
	require.Equal(t, 2, summary.Duplicates)
	require.Equal(t, first, f.dump(t))
	require.Empty(t, first.Current)
}

func TestSyncer_Run_Historical_UsesMostRecentBusinessDay(t *testing.T) {
	// saturday: nothing today or yesterday, friday has data
	f := newSyncFixture(t, map[string][]domain.RawQuote{
		key(2): {{CurrencyCode: "USD", Rate: "1,310.00", Result: 1}},
		key(3): {{CurrencyCode: "USD", Rate: "1,305.00", Result: 1}},
	})

	summary, err := f.syncer.Run(context.Background(), domain.ModeHistorical)
	require.NoError(t, err)
	require.Equal(t, date(2).Format(domain.DateLayout), summary.AsOf.Format(domain.DateLayout))
	require.Equal(t, 3, f.source.calls)

	d := f.dump(t)
	require.Len(t, d.Historical, 1)
	require.Equal(t, date(2).Format(domain.DateLayout), d.Historical[0][2])
}

func TestSyncer_Run_ExhaustedLookback_LeavesTablesUntouched(t *testing.T) {
	f := newSyncFixture(t, friday())
	ctx := context.Background()

	_, err := f.syncer.Run(ctx, domain.ModeCurrent)
	require.NoError(t, err)
	_, err = f.syncer.Run(ctx, domain.ModeHistorical)
	require.NoError(t, err)
	before := f.dump(t)

	f.source.tables = map[string][]domain.RawQuote{}
	f.source.calls = 0

	for _, mode := range []domain.SyncMode{domain.ModeCurrent, domain.ModeHistorical} {
		_, err = f.syncer.Run(ctx, mode)
		require.ErrorIs(t, err, domain.ErrExhaustedLookback)
	}
	require.Equal(t, 20, f.source.calls)
	require.Equal(t, before, f.dump(t))
}

func TestSyncer_Run_ExhaustedLookback_CreatesNoRows(t *testing.T) {
	f := newSyncFixture(t, map[string][]domain.RawQuote{})

	_, err := f.syncer.Run(context.Background(), domain.ModeHistorical)
	require.ErrorIs(t, err, domain.ErrExhaustedLookback)
	require.Equal(t, tableDump{}, f.dump(t))
}

func TestSyncer_Run_UnknownMode(t *testing.T) {
	f := newSyncFixture(t, friday())

	_, err := f.syncer.Run(context.Background(), domain.SyncMode("weekly"))
	require.ErrorIs(t, err, domain.ErrUnknownMode)
	require.Zero(t, f.source.calls)
}

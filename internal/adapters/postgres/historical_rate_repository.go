package postgres

import (
	"context"
	"fmt"
	"fxsync/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type HistoricalRateRepository struct {
	pool *pgxpool.Pool
}

// AppendDay inserts quotes, skipping (currency, date) pairs that are already
// recorded, then purges whole dates beyond the window. One transaction.
func (r *HistoricalRateRepository) AppendDay(ctx context.Context, quotes []domain.Quote, window domain.RetentionWindow) ([]domain.ItemResult, int64, error) {
	// a unique violation would abort the transaction, so conflicts are skipped in SQL
	const insertQ = `
		insert into historical_rates (currency_code, rate, record_date)
		values ($1, $2::numeric, $3::date)
		on conflict (currency_code, record_date) do nothing;
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	items := make([]domain.ItemResult, 0, len(quotes))
	for _, quote := range quotes {
		tag, execErr := tx.Exec(ctx, insertQ, quote.CurrencyCode, quote.Rate.String(), quote.AsOf.Format(domain.DateLayout))
		if execErr != nil {
			return nil, 0, fmt.Errorf("failed to insert historical rate for %q: %w", quote.CurrencyCode, execErr)
		}
		if tag.RowsAffected() == 0 {
			items = append(items, domain.ItemResult{
				CurrencyCode: quote.CurrencyCode,
				Status:       domain.ItemDuplicate,
				Reason:       domain.ErrDuplicateHistorical.Error(),
			})
			continue
		}
		items = append(items, domain.ItemResult{CurrencyCode: quote.CurrencyCode, Status: domain.ItemWritten})
	}

	dates, err := distinctDates(ctx, tx)
	if err != nil {
		return nil, 0, err
	}

	var purged int64
	if expired := window.Expired(dates); len(expired) > 0 {
		// expired is the ascending prefix of all dates, so a cutoff removes exactly those dates
		cutoff := expired[len(expired)-1].Format(domain.DateLayout)
		tag, execErr := tx.Exec(ctx, `delete from historical_rates where record_date <= $1::date;`, cutoff)
		if execErr != nil {
			return nil, 0, fmt.Errorf("failed to purge historical rates up to %s: %w", cutoff, execErr)
		}
		purged = tag.RowsAffected()
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return items, purged, nil
}

// DistinctDates lists the recorded dates, oldest first.
func (r *HistoricalRateRepository) DistinctDates(ctx context.Context) ([]time.Time, error) {
	return distinctDates(ctx, r.pool)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func distinctDates(ctx context.Context, q querier) ([]time.Time, error) {
	rows, err := q.Query(ctx, `select distinct record_date from historical_rates order by record_date asc;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query record dates: %w", err)
	}
	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("failed to collect record dates: %w", err)
	}
	return dates, nil
}

func (r *HistoricalRateRepository) GetRange(ctx context.Context, code string, from, to time.Time) ([]domain.HistoricalRate, error) {
	const q = `
		select currency_code, rate::text, record_date
		from historical_rates
		where currency_code = $1 and record_date between $2::date and $3::date
		order by record_date asc;
	`

	rows, err := r.pool.Query(ctx, q, code, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query historical rates for %q: %w", code, err)
	}
	defer rows.Close()

	history := make([]domain.HistoricalRate, 0, 64)
	for rows.Next() {
		var (
			h     domain.HistoricalRate
			value string
		)
		if err = rows.Scan(&h.CurrencyCode, &value, &h.RecordDate); err != nil {
			return nil, fmt.Errorf("failed to scan historical rate: %w", err)
		}
		if h.Rate, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("failed to parse rate %q: %w", value, err)
		}
		history = append(history, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating historical rates: %w", err)
	}
	return history, nil
}

func NewHistoricalRateRepository(pool *pgxpool.Pool) *HistoricalRateRepository {
	return &HistoricalRateRepository{pool: pool}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fxsync/internal/domain"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

type HistoricalRateRepository struct {
	db *sql.DB
}

// AppendDay inserts quotes one by one; rows already present for (currency, date)
// are reported as duplicates. Afterwards whole dates beyond the window are purged.
func (r *HistoricalRateRepository) AppendDay(ctx context.Context, quotes []domain.Quote, window domain.RetentionWindow) ([]domain.ItemResult, int64, error) {
	const insertQ = `insert into historical_rates (currency_code, rate, record_date) values (?, ?, ?);`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	items := make([]domain.ItemResult, 0, len(quotes))
	for _, quote := range quotes {
		_, err = tx.ExecContext(ctx, insertQ, quote.CurrencyCode, quote.Rate.InexactFloat64(), quote.AsOf.Format(domain.DateLayout))
		switch {
		case err == nil:
			items = append(items, domain.ItemResult{CurrencyCode: quote.CurrencyCode, Status: domain.ItemWritten})
		case isUniqueViolation(err):
			items = append(items, domain.ItemResult{
				CurrencyCode: quote.CurrencyCode,
				Status:       domain.ItemDuplicate,
				Reason:       domain.ErrDuplicateHistorical.Error(),
			})
		default:
			return nil, 0, fmt.Errorf("failed to insert historical rate for %q: %w", quote.CurrencyCode, err)
		}
	}

	purged, err := trim(ctx, tx, window)
	if err != nil {
		return nil, 0, err
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return items, purged, nil
}

// trim deletes every row of the dates that fell out of the window.
func trim(ctx context.Context, tx *sql.Tx, window domain.RetentionWindow) (int64, error) {
	dates, err := distinctDates(ctx, tx)
	if err != nil {
		return 0, err
	}
	expired := window.Expired(dates)
	if len(expired) == 0 {
		return 0, nil
	}

	cutoff := expired[len(expired)-1].Format(domain.DateLayout)
	res, err := tx.ExecContext(ctx, `delete from historical_rates where record_date <= ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge historical rates up to %s: %w", cutoff, err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged rows: %w", err)
	}
	return purged, nil
}

// DistinctDates lists the recorded dates, oldest first.
func (r *HistoricalRateRepository) DistinctDates(ctx context.Context) ([]time.Time, error) {
	return distinctDates(ctx, r.db)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func distinctDates(ctx context.Context, q querier) ([]time.Time, error) {
	rows, err := q.QueryContext(ctx, `select distinct record_date from historical_rates order by record_date asc;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query record dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err = rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan record date: %w", err)
		}
		d, parseErr := time.Parse(domain.DateLayout, raw)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse record date %q: %w", raw, parseErr)
		}
		dates = append(dates, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record dates: %w", err)
	}
	return dates, nil
}

func (r *HistoricalRateRepository) GetRange(ctx context.Context, code string, from, to time.Time) ([]domain.HistoricalRate, error) {
	const q = `
		select currency_code, rate, record_date
		from historical_rates
		where currency_code = ? and record_date between ? and ?
		order by record_date asc;
	`

	rows, err := r.db.QueryContext(ctx, q, code, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query historical rates for %q: %w", code, err)
	}
	defer rows.Close()

	history := make([]domain.HistoricalRate, 0, 64)
	for rows.Next() {
		var (
			h     domain.HistoricalRate
			value float64
			raw   string
		)
		if err = rows.Scan(&h.CurrencyCode, &value, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan historical rate: %w", err)
		}
		h.Rate = decimal.NewFromFloat(value)
		if h.RecordDate, err = time.Parse(domain.DateLayout, raw); err != nil {
			return nil, fmt.Errorf("failed to parse record date %q: %w", raw, err)
		}
		history = append(history, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating historical rates: %w", err)
	}
	return history, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func NewHistoricalRateRepository(db *sql.DB) *HistoricalRateRepository {
	return &HistoricalRateRepository{db: db}
}

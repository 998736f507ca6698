package postgres

import (
	"context"
	"errors"
	"fmt"
	"fxsync/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CurrentRateRepository struct {
	pool *pgxpool.Pool
}

func (r *CurrentRateRepository) ReplaceSnapshot(ctx context.Context, quotes []domain.Quote, writtenAt time.Time) error {
	const q = `
		insert into current_rates (currency_code, rate, as_of_date, written_at)
		values ($1, $2::numeric, $3::date, $4)
		on conflict (currency_code) do update
		set rate = excluded.rate, as_of_date = excluded.as_of_date, written_at = excluded.written_at;
	`

	batch := &pgx.Batch{}
	for _, quote := range quotes {
		batch.Queue(q, quote.CurrencyCode, quote.Rate.String(), quote.AsOf.Format(domain.DateLayout), writtenAt)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert current rates: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *CurrentRateRepository) GetAll(ctx context.Context) ([]domain.CurrentRate, error) {
	const q = `
		select currency_code, rate::text, as_of_date, written_at
		from current_rates
		order by currency_code;
	`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query current rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.CurrentRate, 0, 32)
	for rows.Next() {
		rate, scanErr := scanCurrentRate(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan current rate: %w", scanErr)
		}
		rates = append(rates, rate)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating current rates: %w", err)
	}
	return rates, nil
}

func (r *CurrentRateRepository) GetByCode(ctx context.Context, code string) (domain.CurrentRate, error) {
	const q = `
		select currency_code, rate::text, as_of_date, written_at
		from current_rates
		where currency_code = $1;
	`

	rate, err := scanCurrentRate(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CurrentRate{}, domain.ErrRateNotFound
		}
		return domain.CurrentRate{}, fmt.Errorf("failed to select current rate %q: %w", code, err)
	}
	return rate, nil
}

func scanCurrentRate(row pgx.Row) (domain.CurrentRate, error) {
	var (
		rate  domain.CurrentRate
		value string
	)
	if err := row.Scan(&rate.CurrencyCode, &value, &rate.AsOf, &rate.WrittenAt); err != nil {
		return domain.CurrentRate{}, err
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return domain.CurrentRate{}, fmt.Errorf("failed to parse rate %q: %w", value, err)
	}
	rate.Rate = d
	return rate, nil
}

func NewCurrentRateRepository(pool *pgxpool.Pool) *CurrentRateRepository {
	return &CurrentRateRepository{pool: pool}
}

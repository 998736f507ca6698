package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fxsync/internal/domain"
	"time"

	"github.com/shopspring/decimal"
)

type CurrentRateRepository struct {
	db *sql.DB
}

// ReplaceSnapshot upserts all quotes in a single transaction.
func (r *CurrentRateRepository) ReplaceSnapshot(ctx context.Context, quotes []domain.Quote, writtenAt time.Time) error {
	const q = `
		insert into current_rates (currency_code, rate, as_of_date, written_at)
		values (?, ?, ?, ?)
		on conflict (currency_code) do update
		set rate = excluded.rate, as_of_date = excluded.as_of_date, written_at = excluded.written_at;
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	ts := writtenAt.UTC().Format(time.RFC3339Nano)
	for _, quote := range quotes {
		if _, err = stmt.ExecContext(ctx, quote.CurrencyCode, quote.Rate.InexactFloat64(), quote.AsOf.Format(domain.DateLayout), ts); err != nil {
			return fmt.Errorf("failed to upsert current rate for %q: %w", quote.CurrencyCode, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *CurrentRateRepository) GetAll(ctx context.Context) ([]domain.CurrentRate, error) {
	const q = `select currency_code, rate, as_of_date, written_at from current_rates order by currency_code;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query current rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.CurrentRate, 0, 32)
	for rows.Next() {
		rate, scanErr := scanCurrentRate(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		rates = append(rates, rate)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating current rates: %w", err)
	}
	return rates, nil
}

func (r *CurrentRateRepository) GetByCode(ctx context.Context, code string) (domain.CurrentRate, error) {
	const q = `select currency_code, rate, as_of_date, written_at from current_rates where currency_code = ?;`

	rate, err := scanCurrentRate(r.db.QueryRowContext(ctx, q, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CurrentRate{}, domain.ErrRateNotFound
		}
		return domain.CurrentRate{}, fmt.Errorf("failed to select current rate %q: %w", code, err)
	}
	return rate, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCurrentRate(s scanner) (domain.CurrentRate, error) {
	var (
		rate      domain.CurrentRate
		value     float64
		asOf      string
		writtenAt string
	)
	if err := s.Scan(&rate.CurrencyCode, &value, &asOf, &writtenAt); err != nil {
		return domain.CurrentRate{}, err
	}

	var err error
	rate.Rate = decimal.NewFromFloat(value)
	if rate.AsOf, err = time.Parse(domain.DateLayout, asOf); err != nil {
		return domain.CurrentRate{}, fmt.Errorf("failed to parse as_of_date %q: %w", asOf, err)
	}
	if rate.WrittenAt, err = time.Parse(time.RFC3339Nano, writtenAt); err != nil {
		return domain.CurrentRate{}, fmt.Errorf("failed to parse written_at %q: %w", writtenAt, err)
	}
	return rate, nil
}

func NewCurrentRateRepository(db *sql.DB) *CurrentRateRepository {
	return &CurrentRateRepository{db: db}
}

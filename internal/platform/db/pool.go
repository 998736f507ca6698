package db

import (
	"context"
	"fxsync/internal/config"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const pingAttempts = 5

// CreatePoolAndPing opens a pgx pool and pings it, retrying the ping a few
// times so a database that is still starting up does not fail the run.
func CreatePoolAndPing(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetConnectionStr())
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), pingAttempts-1), ctx)
	err = backoff.RetryNotify(func() error {
		return pool.Ping(ctx)
	}, b, func(pingErr error, next time.Duration) {
		logrus.WithError(pingErr).Warnf("Postgres ping failed, retrying in %s", next)
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

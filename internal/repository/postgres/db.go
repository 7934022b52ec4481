package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	connectRetries  = 5
)

// Open connects to PostgreSQL and waits until the server answers a ping.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectRetries)
	if err := waitForDB(ctx, db, policy, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func waitForDB(ctx context.Context, db *sql.DB, policy backoff.BackOff, logger *slog.Logger) error {
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		logger.WarnContext(ctx, "database not ready, retrying", "wait", wait, "err", err)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

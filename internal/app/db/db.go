// Package db initializes the PostgreSQL connection pool and applies schema migrations.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"rtchat/internal/pkg/logx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	// connectAttempts bounds the startup retry loop against a store that is
	// still coming up.
	connectAttempts = 5

	// connectRetryDelay is the pause between startup connection attempts.
	connectRetryDelay = 5 * time.Second
)

// NewPool initializes a new PostgreSQL connection pool and executes database
// migrations. Connection failures are retried a bounded number of times before
// giving up, replacing ad hoc reconnect-on-timer schemes with an explicit policy.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		pool, err = connect(attemptCtx, config)
		cancel()

		if err == nil {
			break
		}

		logx.Warn("Database connection attempt failed.",
			"attempt", attempt,
			"max_attempts", connectAttempts,
			"error", err.Error(),
		)

		if attempt == connectAttempts {
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", connectAttempts, err)
		}

		select {
		case <-time.After(connectRetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := runMigrations(pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// connect creates a pool from the given config and verifies it with a ping.
func connect(ctx context.Context, config *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	return migrateUp(sqlDB)
}

func migrateUp(sqlDB *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logx.Info("Database migrations applied successfully.")
	return nil
}

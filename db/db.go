// Package db provides database connectivity and migration functionality for the campus portal.
// It handles establishing the pgx connection pool and applying the embedded schema
// migrations. Stores in the feature packages depend only on the small Querier
// interface declared here, so they can be exercised with pgxmock in tests.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	// `pgxpool` is part of the `jackc/pgx` suite, providing a robust connection pool for PostgreSQL.
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/campus-portal-go/apperror"
	"github.com/user/campus-portal-go/config"
)

// Querier is the subset of *pgxpool.Pool the stores use. pgxmock.PgxPoolIface
// satisfies it as well.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pinger is implemented by anything that can report database liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewPool establishes the application's PostgreSQL connection pool.
// It configures max connections, connection lifetime and idle time, and pings the
// database before returning so a bad DSN fails at startup rather than on the first request.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing database DSN", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// Use a context with a timeout for the pool creation process.
	// This prevents indefinite blocking if the database is unreachable.
	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", poolConfig.ConnConfig.Database), err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close() // Clean up on connection failure
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s", poolConfig.ConnConfig.Database), err)
	}

	return pool, nil
}

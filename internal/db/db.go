// Package db provides PostgreSQL storage for detected job descriptions.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// schema creates the tables the store needs. Statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS job_descriptions (
    id           UUID PRIMARY KEY,
    url          TEXT NOT NULL UNIQUE,
    host         TEXT NOT NULL DEFAULT '',
    platform     TEXT NOT NULL DEFAULT 'unknown',
    text         TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    confidence   DOUBLE PRECISION NOT NULL,
    level        TEXT NOT NULL,
    reasons      JSONB,
    fit_score    JSONB,
    detected_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_job_descriptions_updated_at
    ON job_descriptions (updated_at DESC);
`

// Migrate creates the store's tables if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/observability"
	"github.com/Devyalamaddi/CareConnect/pkg/config"
	"github.com/Devyalamaddi/CareConnect/pkg/retry"
)

// deferredTasksSchema holds the worker's only relational state: the durable
// deferred-task queue replayed on sync triggers.
const deferredTasksSchema = `
CREATE TABLE IF NOT EXISTS deferred_tasks (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	payload         JSONB,
	idempotency_key TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_deferred_tasks_kind ON deferred_tasks (kind, created_at);
`

// Client represents a PostgreSQL database client
type Client struct {
	db *sql.DB
}

// NewClient creates a new PostgreSQL client with exponential backoff retry
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.DoWithLog(context.Background(), retry.DefaultConfig(), "postgres", observability.GetLogger(), func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &Client{db: db}, nil
}

// EnsureSchema creates the deferred-task queue table if it does not exist
func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, deferredTasksSchema); err != nil {
		return fmt.Errorf("failed to ensure deferred_tasks schema: %w", err)
	}
	return nil
}

// DB returns the underlying database handle
func (c *Client) DB() *sql.DB {
	return c.db
}

// Ping verifies the connection to PostgreSQL
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

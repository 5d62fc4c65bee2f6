package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"medcost-service/internal/common/config"
)

// PostgresClient owns the pool behind the users store.
type PostgresClient struct {
	DB  *sql.DB
	url string
}

// NewPostgres builds a pooled lib/pq handle. A malformed DSN fails here;
// reachability is only checked by Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	connector, err := pq.NewConnector(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("invalid postgres configuration: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db, url: cfg.GetURL()}, nil
}

// NewPostgresFromDB wraps an existing handle, e.g. one produced by sqlmock.
func NewPostgresFromDB(db *sql.DB) *PostgresClient {
	return &PostgresClient{DB: db}
}

// Migrate applies the embedded schema migrations.
func (c *PostgresClient) Migrate() error {
	if c.url == "" {
		return fmt.Errorf("postgres client has no connection url")
	}
	return MigrateUp(c.url)
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/config"
)

// Client wraps the shared ClickHouse connection. Every statement the service
// runs goes through Exec, Query or QueryRow so that parameter binding stays
// centralized; identifiers are never built from request values.
type Client struct {
	connection driver.Conn
	log        *zap.Logger
}

// NewClient connects to ClickHouse with a flat retry schedule. Failure after
// the configured retries is fatal and propagates to the caller.
func NewClient(ctx context.Context, cfg config.ClickHouse, log *zap.Logger) (*Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	delay := time.Duration(cfg.RetryDelaySec) * time.Second

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		log.Info("Connecting to ClickHouse",
			zap.String("addr", addr),
			zap.String("database", cfg.Database),
			zap.Int("attempt", attempt))

		connection, err := clickhouse.Open(&clickhouse.Options{
			Addr: []string{addr},
			Auth: clickhouse.Auth{
				Database: cfg.Database,
				Username: cfg.User,
				Password: cfg.Password,
			},
			Settings: clickhouse.Settings{
				"max_execution_time": 60,
			},
			DialTimeout:     5 * time.Second,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeSec) * time.Second,
		})
		if err == nil {
			err = connection.Ping(ctx)
			if err == nil {
				log.Info("ClickHouse connection established")
				return &Client{connection: connection, log: log}, nil
			}
			_ = connection.Close()
		}

		lastErr = err
		log.Warn("ClickHouse connection failed",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < cfg.MaxRetries {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect to ClickHouse after %d attempts: %w", cfg.MaxRetries, lastErr)
}

// Exec runs a statement that returns no rows.
func (c *Client) Exec(ctx context.Context, query string, args ...any) error {
	if err := c.connection.Exec(ctx, query, args...); err != nil {
		c.log.Error("ClickHouse exec failed", zap.Error(err))
		return err
	}
	return nil
}

// Query runs a statement returning multiple rows.
func (c *Client) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	rows, err := c.connection.Query(ctx, query, args...)
	if err != nil {
		c.log.Error("ClickHouse query failed", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

// QueryRow runs a statement returning a single row.
func (c *Client) QueryRow(ctx context.Context, query string, args ...any) driver.Row {
	return c.connection.QueryRow(ctx, query, args...)
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.connection.Ping(ctx)
}

// Close closes the ClickHouse connection.
func (c *Client) Close() error {
	if err := c.connection.Close(); err != nil {
		c.log.Error("Error closing ClickHouse connection", zap.Error(err))
		return err
	}
	c.log.Info("ClickHouse connection closed")
	return nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL represents a PostgreSQL database connection
type PostgreSQL struct {
	pool *pgxpool.Pool
}

type PostgreSQLConfig struct {
	User              string
	Password          string
	Host              string
	Port              int
	Database          string
	SSLMode           string
	MaxConnections    int32
	ConnectionTimeout time.Duration
}

// DefaultPostgreSQLConfig returns a local development database
func DefaultPostgreSQLConfig() PostgreSQLConfig {
	return PostgreSQLConfig{
		User:              "postgres",
		Host:              "localhost",
		Port:              5432,
		Database:          "oneapp",
		SSLMode:           "disable",
		MaxConnections:    10,
		ConnectionTimeout: 10 * time.Second,
	}
}

// Validate checks the fields required to open a pool
func (c PostgreSQLConfig) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("database port %d is out of range", c.Port)
	}
	return nil
}

// PoolConfig builds a pgxpool configuration. Fields are set individually so
// that passwords with URL-special characters need no escaping.
func (c PostgreSQLConfig) PoolConfig() (*pgxpool.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	poolConfig, err := pgxpool.ParseConfig("sslmode=" + sslMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection config: %w", err)
	}

	poolConfig.ConnConfig.Host = c.Host
	poolConfig.ConnConfig.Port = uint16(c.Port)
	poolConfig.ConnConfig.Database = c.Database
	poolConfig.ConnConfig.User = c.User
	poolConfig.ConnConfig.Password = c.Password
	if c.ConnectionTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = c.ConnectionTimeout
	}
	if c.MaxConnections > 0 {
		poolConfig.MaxConns = c.MaxConnections
	}

	return poolConfig, nil
}

// New creates a connection pool and verifies it with a ping
func New(ctx context.Context, cfg PostgreSQLConfig) (*PostgreSQL, error) {
	poolConfig, err := cfg.PoolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database %s@%s:%d/%s: %w", cfg.User, cfg.Host, cfg.Port, cfg.Database, err)
	}

	return &PostgreSQL{pool: pool}, nil
}

// Pool returns the underlying connection pool
func (db *PostgreSQL) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping checks the connection
func (db *PostgreSQL) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the database connection
func (db *PostgreSQL) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

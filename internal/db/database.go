package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"fleetmaster/internal/logger"
)

// Database owns the shared connection pool. Repositories receive the
// embedded *sql.DB.
type Database struct {
	*sql.DB
}

// Open creates the pool and verifies the server is reachable before returning.
func Open(ctx context.Context, connString string) (*Database, error) {
	pool, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(30 * time.Minute)
	pool.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	stats := pool.Stats()
	logger.Info("Connected to database", "max_open", stats.MaxOpenConnections)
	return &Database{pool}, nil
}

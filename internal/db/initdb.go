package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"

	"fleetmaster/internal/logger"
)

var errNoDBName = errors.New("could not find database name in connection string")

// CreateDatabaseIfNotExists connects to the maintenance database on the same
// server and creates the fleet database when it is missing.
func CreateDatabaseIfNotExists(ctx context.Context, connString string) error {
	dbName, maintenance, err := splitConnString(connString)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	conn, err := sql.Open("postgres", maintenance)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close()

	return ensureDatabase(ctx, conn, dbName)
}

func ensureDatabase(ctx context.Context, conn *sql.DB, dbName string) error {
	var exists bool
	err := conn.QueryRowContext(ctx, "SELECT TRUE FROM pg_database WHERE datname = $1", dbName).Scan(&exists)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("failed to check if database exists: %w", err)
	case exists:
		return nil
	}

	// CREATE DATABASE takes no bind parameters.
	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName)); err != nil {
		var pqErr *pq.Error
		// another instance won the race
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	logger.Info("Database created", "name", dbName)
	return nil
}

// splitConnString returns the target database name and the same connection
// string pointed at the "postgres" maintenance database. Both URL and
// key=value forms are accepted.
func splitConnString(connString string) (string, string, error) {
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		u, err := url.Parse(connString)
		if err != nil {
			return "", "", fmt.Errorf("failed to parse connection URL: %w", err)
		}
		name := strings.TrimPrefix(u.Path, "/")
		if name == "" {
			return "", "", errNoDBName
		}
		u.Path = "/postgres"
		return name, u.String(), nil
	}

	var name string
	fields := strings.Fields(connString)
	for i, f := range fields {
		if v, ok := strings.CutPrefix(f, "dbname="); ok {
			name = v
			fields[i] = "dbname=postgres"
		}
	}
	if name == "" {
		return "", "", errNoDBName
	}
	return name, strings.Join(fields, " "), nil
}

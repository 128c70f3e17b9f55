// Package migrations applies the embedded fleet schema in version order.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"fleetmaster/internal/logger"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

const migrationsDir = "sql"

// lockKey serialises concurrent instances migrating the same database.
const lockKey int64 = 0x666c656574

type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Up applies every embedded migration that is not yet recorded.
func Up(ctx context.Context, db *sql.DB) error {
	return withLock(ctx, db, func(conn *sql.Conn) error {
		return up(ctx, conn, migrationFiles)
	})
}

// Rollback reverts the most recently applied migrations, newest first.
func Rollback(ctx context.Context, db *sql.DB, steps int) error {
	return withLock(ctx, db, func(conn *sql.Conn) error {
		return rollback(ctx, conn, migrationFiles, steps)
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func withLock(ctx context.Context, db *sql.DB, fn func(*sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", lockKey); err != nil {
		return fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", lockKey); err != nil {
			logger.Warn("Failed to release migration lock", "error", err)
		}
	}()

	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return fn(conn)
}

func up(ctx context.Context, db execer, fsys fs.FS) error {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	files, err := load(fsys)
	if err != nil {
		return fmt.Errorf("failed to load migration files: %w", err)
	}

	for _, m := range files {
		if applied[m.Version] {
			continue
		}
		err := inTx(ctx, db, m.Up,
			"INSERT INTO schema_migrations (version, name) VALUES ($1, $2) ON CONFLICT (version) DO NOTHING",
			m.Version, m.Name)
		if err != nil {
			return fmt.Errorf("failed to apply migration %04d_%s: %w", m.Version, m.Name, err)
		}
		logger.Info("Applied migration", "version", m.Version, "name", m.Name)
	}
	return nil
}

func rollback(ctx context.Context, db execer, fsys fs.FS, steps int) error {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	files, err := load(fsys)
	if err != nil {
		return fmt.Errorf("failed to load migration files: %w", err)
	}

	for i := len(files) - 1; i >= 0 && steps > 0; i-- {
		m := files[i]
		if !applied[m.Version] {
			continue
		}
		if m.Down == "" {
			return fmt.Errorf("migration %04d_%s has no down script", m.Version, m.Name)
		}
		if err := inTx(ctx, db, m.Down, "DELETE FROM schema_migrations WHERE version = $1", m.Version); err != nil {
			return fmt.Errorf("failed to revert migration %04d_%s: %w", m.Version, m.Name, err)
		}
		logger.Info("Reverted migration", "version", m.Version, "name", m.Name)
		steps--
	}
	return nil
}

func inTx(ctx context.Context, db execer, script, record string, args ...any) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}

func appliedVersions(ctx context.Context, db execer) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func load(fsys fs.FS) ([]Migration, error) {
	ups, err := fs.Glob(fsys, path.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return nil, err
	}

	out := make([]Migration, 0, len(ups))
	for _, file := range ups {
		version, name, err := parseFilename(path.Base(file))
		if err != nil {
			return nil, err
		}
		upSQL, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		downSQL, err := fs.ReadFile(fsys, strings.TrimSuffix(file, ".up.sql")+".down.sql")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		out = append(out, Migration{Version: version, Name: name, Up: string(upSQL), Down: string(downSQL)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

// parseFilename splits "0001_name.up.sql" into its version and name.
func parseFilename(filename string) (int, string, error) {
	prefix, rest, ok := strings.Cut(filename, "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename format: %s", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version in filename %s: %w", filename, err)
	}
	name := strings.TrimSuffix(strings.TrimSuffix(rest, ".up.sql"), ".down.sql")
	return version, name, nil
}

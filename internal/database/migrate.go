package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type migration struct {
	name string
	sql  string
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var migrations []migration

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}

		body, err := fs.ReadFile(fsys, "migrations/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", e.Name(), err)
		}

		migrations = append(migrations, migration{
			name: strings.TrimSuffix(e.Name(), ".sql"),
			sql:  string(body),
		})
	}

	slices.SortFunc(migrations, func(a, b migration) int { return strings.Compare(a.name, b.name) })

	return migrations, nil
}

// Migrate applies every embedded migration not yet recorded in schema_versions, in file name
// order, each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := loadMigrations(migrationFiles)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("creating schema_versions table: %w", err)
	}

	for _, m := range migrations {
		applied, err := apply(ctx, db, m)
		if err != nil {
			return fmt.Errorf("applying migration %s: %w", m.name, err)
		}

		if applied {
			slog.Info("migration applied", "name", m.name)
		}
	}

	return nil
}

func apply(ctx context.Context, db *sql.DB, m migration) (bool, error) {
	dbTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`INSERT INTO schema_versions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, m.name)
	if err != nil {
		return false, fmt.Errorf("recording migration: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("recording migration: %w", err)
	}

	if n == 0 {
		return false, nil
	}

	if _, err := dbTx.ExecContext(ctx, m.sql); err != nil {
		return false, err
	}

	if err := dbTx.Commit(); err != nil {
		return false, fmt.Errorf("committing migration: %w", err)
	}

	return true, nil
}

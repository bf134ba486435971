package postgres

import (
	"context"
	"embed"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every embedded migration that has not been recorded yet.
// It is safe to call on every start.
func (db *DB) Migrate(ctx context.Context, logger zerolog.Logger) error {
	if _, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return errFailedCreateMigrationsTable(err)
	}

	entries, err := migrationsFS.ReadDir(migrationsDir)
	if err != nil {
		return errFailedReadMigrations(err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), migrationExt) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		if err := db.applyMigration(ctx, logger, f); err != nil {
			return err
		}
	}

	return nil
}

func (db *DB) applyMigration(ctx context.Context, logger zerolog.Logger, file string) error {
	version := strings.TrimSuffix(file, migrationExt)

	var exists bool
	if err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
	).Scan(&exists); err != nil {
		return errFailedCheckMigration(file, err)
	}
	if exists {
		return nil
	}

	body, err := migrationsFS.ReadFile(migrationsDir + "/" + file)
	if err != nil {
		return errFailedReadMigration(file, err)
	}

	logger.Info().Str("version", version).Msg("applying migration")

	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(body)); err != nil {
			return errFailedApplyMigration(file, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return errFailedRecordMigration(file, err)
		}
		return nil
	})
}

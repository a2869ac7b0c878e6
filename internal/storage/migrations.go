package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial catalog schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS wines (
					id TEXT PRIMARY KEY,
					lwin7 TEXT,
					lwin11 TEXT,
					lwin18 TEXT,
					name TEXT NOT NULL,
					producer TEXT NOT NULL DEFAULT '',
					producer_title TEXT NOT NULL DEFAULT '',
					vintage INTEGER,
					country TEXT NOT NULL DEFAULT '',
					region TEXT NOT NULL DEFAULT '',
					sub_region TEXT NOT NULL DEFAULT '',
					appellation TEXT NOT NULL DEFAULT '',
					designation TEXT NOT NULL DEFAULT '',
					classification TEXT NOT NULL DEFAULT '',
					category TEXT NOT NULL DEFAULT 'red',
					category_unknown INTEGER NOT NULL DEFAULT 0,
					grapes TEXT,
					alcohol REAL,
					data_source TEXT NOT NULL DEFAULT '',
					owner TEXT,
					last_synced DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_wines_lwin7 ON wines(lwin7)`,
				`CREATE INDEX idx_wines_lwin11 ON wines(lwin11)`,
				`CREATE INDEX idx_wines_name ON wines(name)`,
				`CREATE INDEX idx_wines_producer ON wines(producer)`,
				`CREATE INDEX idx_wines_country ON wines(country)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add import run history for auditing",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS import_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source_file TEXT NOT NULL,
					total INTEGER NOT NULL DEFAULT 0,
					inserted INTEGER NOT NULL DEFAULT 0,
					updated INTEGER NOT NULL DEFAULT 0,
					skipped INTEGER NOT NULL DEFAULT 0,
					errors INTEGER NOT NULL DEFAULT 0,
					started_at DATETIME NOT NULL,
					finished_at DATETIME NOT NULL
				)
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Enforce lwin11 uniqueness on canonical records",
		Up: func(tx *sql.Tx) error {
			// No uniqueness on (lwin7, vintage): an lwin11-priority update
			// may legitimately land on a record that shares that pair.
			_, err := tx.Exec(`
				CREATE UNIQUE INDEX IF NOT EXISTS idx_wines_canonical_lwin11
				ON wines(lwin11) WHERE owner IS NULL AND lwin11 IS NOT NULL
			`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

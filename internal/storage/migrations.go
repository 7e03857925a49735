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
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					type TEXT NOT NULL,
					balance INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT UNIQUE NOT NULL,
					type TEXT NOT NULL,
					color TEXT NOT NULL DEFAULT '',
					icon TEXT NOT NULL DEFAULT '',
					is_default INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS rules (
					id TEXT PRIMARY KEY,
					match_text TEXT NOT NULL,
					category_id TEXT NOT NULL,
					priority INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_rules_priority ON rules(priority)`,

				`CREATE TABLE IF NOT EXISTS entries (
					id TEXT PRIMARY KEY,
					amount INTEGER NOT NULL CHECK (amount > 0),
					type TEXT NOT NULL CHECK (type IN ('EXPENSE', 'INCOME')),
					category_id TEXT,
					account_id TEXT,
					date DATETIME NOT NULL,
					note TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_entries_date ON entries(date)`,
				`CREATE INDEX idx_entries_account ON entries(account_id)`,
				`CREATE INDEX idx_entries_category ON entries(category_id)`,
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
		Description: "Add budgets and savings goals",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS budgets (
					category_id TEXT PRIMARY KEY,
					amount INTEGER NOT NULL CHECK (amount > 0),
					alert_threshold REAL NOT NULL DEFAULT 0.8
						CHECK (alert_threshold >= 0 AND alert_threshold <= 1)
				)`,

				`CREATE TABLE IF NOT EXISTS savings_goals (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					target_amount INTEGER NOT NULL CHECK (target_amount > 0),
					saved_amount INTEGER NOT NULL DEFAULT 0 CHECK (saved_amount >= 0),
					icon TEXT NOT NULL DEFAULT '',
					color TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
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
		Version:     3,
		Description: "Add recurring schedules and entry links",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS recurrings (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					amount INTEGER NOT NULL CHECK (amount > 0),
					type TEXT NOT NULL CHECK (type IN ('EXPENSE', 'INCOME')),
					category_id TEXT,
					account_id TEXT,
					day_of_month INTEGER NOT NULL CHECK (day_of_month BETWEEN 1 AND 28),
					last_applied DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`ALTER TABLE entries ADD COLUMN recurring_id TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE entries ADD COLUMN goal_id TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE entries ADD COLUMN debt_id TEXT NOT NULL DEFAULT ''`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
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

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order exactly once; the applied version is
// tracked in schema_migrations.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		description   TEXT,
		color         TEXT,
		capacity      INTEGER,
		is_active     INTEGER NOT NULL DEFAULT 1,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id             TEXT PRIMARY KEY,
		room_id        TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		title          TEXT NOT NULL,
		start_time     TEXT NOT NULL,
		end_time       TEXT NOT NULL,
		status         TEXT NOT NULL CHECK (status IN ('active', 'ended')),
		source         TEXT NOT NULL CHECK (source IN ('board', 'admin')),
		ended_early_at TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		CHECK (end_time > start_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_room_status_end
		ON bookings (room_id, status, end_time)`,
	`CREATE TABLE IF NOT EXISTS board_settings (
		id                TEXT PRIMARY KEY,
		time_zone         TEXT NOT NULL,
		booking_durations TEXT NOT NULL,
		extend_increments TEXT NOT NULL,
		public_token      TEXT NOT NULL UNIQUE,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admin_credentials (
		id            TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admin_sessions (
		id         TEXT PRIMARY KEY,
		token      TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		revoked_at TEXT
	)`,
}

// Migrate brings the schema up to the current version.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	err := cp.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for version := current + 1; version <= len(migrations); version++ {
		statement := migrations[version-1]
		if err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(statement); err != nil {
				return fmt.Errorf("migration %d failed: %w", version, err)
			}
			if _, err := tx.Exec(
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`,
				version,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", version, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

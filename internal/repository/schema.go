package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements bootstraps the four tables and their indexes. Every
// statement is idempotent so InitSchema can run on each startup. The lat/lon
// columns and their indexes started life as a separate migration; they are
// folded into the base definition here.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		email TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS address_current_status (
		id SERIAL PRIMARY KEY,
		lokalid TEXT UNIQUE NOT NULL,
		address_text TEXT,
		kommune TEXT,
		fylke TEXT,
		current_status TEXT,
		last_changed_by INTEGER REFERENCES users(id),
		last_changed_at TIMESTAMPTZ,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS address_history (
		id SERIAL PRIMARY KEY,
		lokalid TEXT NOT NULL,
		address_text TEXT,
		kommune TEXT,
		fylke TEXT,
		old_status TEXT,
		new_status TEXT,
		changed_by INTEGER REFERENCES users(id),
		changed_by_name TEXT,
		changed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		action_type TEXT NOT NULL DEFAULT 'status_change'
			CHECK (action_type IN ('status_change', 'reset', 'bulk_reset')),
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS reset_log (
		id SERIAL PRIMARY KEY,
		kommune TEXT,
		fylke TEXT,
		reset_by INTEGER REFERENCES users(id),
		reset_by_name TEXT,
		addresses_affected INTEGER,
		reset_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		reason TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lokalid ON address_current_status (lokalid)`,
	`CREATE INDEX IF NOT EXISTS idx_history_lokalid ON address_history (lokalid)`,
	`CREATE INDEX IF NOT EXISTS idx_history_date ON address_history (changed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_address_current_status_lat ON address_current_status (lat)`,
	`CREATE INDEX IF NOT EXISTS idx_address_current_status_lon ON address_current_status (lon)`,
	`CREATE INDEX IF NOT EXISTS idx_address_current_status_lat_lon ON address_current_status (lat, lon)`,
}

// InitSchema creates missing tables and indexes.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	return nil
}

// Package schema owns the relational layout shared by every repository.
// The statements stay within the subset understood by both postgres and
// sqlite so the same migration runs in production and in tests.
package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sku TEXT NOT NULL UNIQUE,
		stock INTEGER NOT NULL CHECK (stock >= 0),
		threshold INTEGER NOT NULL CHECK (threshold >= 0),
		status TEXT NOT NULL DEFAULT 'HEALTHY',
		location TEXT NOT NULL,
		last_updated_by TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items_log (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		quantity_changed TEXT NOT NULL,
		note TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_log_sku ON items_log (sku)`,
	`CREATE TABLE IF NOT EXISTS batch_logs (
		id TEXT PRIMARY KEY,
		affected_skus TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		note TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		assignee TEXT NOT NULL,
		level TEXT NOT NULL DEFAULT 'MEDIUM',
		status TEXT NOT NULL DEFAULT 'NOT-STARTED',
		assigned_employees TEXT NOT NULL DEFAULT '[]',
		started_at TIMESTAMP,
		completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks (assignee)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT 'Worker',
		street TEXT NOT NULL,
		city TEXT NOT NULL,
		zip TEXT NOT NULL,
		country TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}

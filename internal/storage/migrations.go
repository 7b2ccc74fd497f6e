package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations contains all database migrations in order
var migrations = []Migration{
	{
		Version:     1,
		Description: "Add urgent processing columns to leads",
		SQL: `
ALTER TABLE leads ADD COLUMN urgent INTEGER NOT NULL DEFAULT 0;
ALTER TABLE leads ADD COLUMN urgent_at TIMESTAMP;

CREATE INDEX IF NOT EXISTS idx_leads_urgent ON leads(urgent);
`,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(ctx context.Context, queue *DBQueue) error {
	return queue.Execute(ctx, func(db *sql.DB) error {
		_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
		if err != nil {
			return fmt.Errorf("failed to create schema_migrations table: %w", err)
		}

		var currentVersion int
		err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
		if err != nil {
			return fmt.Errorf("failed to read current migration version: %w", err)
		}

		for _, m := range migrations {
			if m.Version <= currentVersion {
				continue
			}

			if _, err := db.Exec(m.SQL); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
			}

			if _, err := db.Exec(
				"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
				m.Version, m.Description,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
		}

		return nil
	})
}

package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestMigrationsAreIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	queue := NewDBQueue(db)
	defer queue.Close()

	ctx := context.Background()

	if err := InitSchema(ctx, queue); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	// Running twice must not re-apply the ALTER TABLE statements
	if err := RunMigrations(ctx, queue); err != nil {
		t.Fatalf("first RunMigrations failed: %v", err)
	}
	if err := RunMigrations(ctx, queue); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}

	err = queue.Execute(ctx, func(db *sql.DB) error {
		var version int
		if err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
			return err
		}
		if version != migrations[len(migrations)-1].Version {
			t.Errorf("schema at version %d, want %d", version, migrations[len(migrations)-1].Version)
		}

		// The migrated columns are usable
		_, err := db.Exec("SELECT urgent, urgent_at FROM leads LIMIT 1")
		return err
	})
	if err != nil {
		t.Fatalf("schema inspection failed: %v", err)
	}
}

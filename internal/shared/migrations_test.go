package shared

import (
	"strings"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}
		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i, m := range migrations {
			if i > 0 && m.Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", m.Version, migrations[i-1].Version)
			}
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		var applied int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if applied == 0 {
			t.Error("expected at least one migration to be applied")
		}

		for _, table := range []string{"projects", "chapters", "runs"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		var indexSQL string
		err = db.QueryRow("SELECT sql FROM sqlite_master WHERE type = 'index' AND name = 'idx_chapters_project'").Scan(&indexSQL)
		if err != nil {
			t.Fatalf("chapter dedupe index missing: %v", err)
		}
		if !strings.Contains(indexSQL, "UNIQUE") || !strings.Contains(indexSQL, "deleted_at IS NULL") {
			t.Errorf("expected partial unique index on chapters, got %q", indexSQL)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		var remaining int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&remaining); err != nil {
			t.Fatalf("failed to query schema_migrations after rollback: %v", err)
		}
		if remaining >= applied {
			t.Errorf("expected migration count to decrease after rollback, got %d (was %d)", remaining, applied)
		}
	})

	t.Run("Rollback Without Applied Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RollbackMigration(db); err == nil {
			t.Error("expected rollback on an empty database to fail")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		migrations, _ := loadMigrations()

		var applied int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if applied != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), applied)
		}
	})
}

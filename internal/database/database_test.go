package database

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *Manager {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("failed to get schema version: %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("expected schema version %d, got %d", len(migrations), version)
	}
}

func TestMigrate_CreatesContentTables(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"settings", "projects", "blog_posts", "team_members", "gallery_images"} {
		var name string
		err := db.queryRow(context.Background(),
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}
}

func TestSplitSQLStatements(t *testing.T) {
	sql := `
		-- first
		CREATE TABLE a (id INTEGER);

		CREATE TABLE b (
			id INTEGER
		);
		-- trailing comment
		SELECT 1`

	statements := splitSQLStatements(sql)
	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(statements), statements)
	}
	if statements[0] != "CREATE TABLE a (id INTEGER);" {
		t.Fatalf("unexpected first statement %q", statements[0])
	}
	if statements[2] != "SELECT 1" {
		t.Fatalf("expected trailing statement without semicolon, got %q", statements[2])
	}
}

func TestOptimizeAndVacuum(t *testing.T) {
	db := newTestDB(t)

	if err := db.Optimize(); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	if err := db.Vacuum(); err != nil {
		t.Fatalf("vacuum failed: %v", err)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var d *db
	if err := d.Close(); err != nil {
		t.Fatalf("expected nil error closing nil db, got %v", err)
	}
}

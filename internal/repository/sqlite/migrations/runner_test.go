package migrations_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/msomdec/user-accounts/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A single connection keeps the in-memory database alive across queries.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		"3f1c0c4e-7d8b-4b43-9a39-5f3a0d3c9d11", "Test User", "test@example.com", "hash123",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}

	applied, err := migrations.Applied(ctx, db)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}
	if len(applied) == 0 {
		t.Fatal("expected at least one migration recorded in schema_migrations")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := migrations.Applied(ctx, db)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}
	second, err := migrations.Applied(ctx, db)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected %d migration records after rerun, got %d", len(first), len(second))
	}
}

func TestRunFS_OrderAndFailure(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("INSERT INTO things (name) VALUES ('b');")},
		"001_first.sql":  {Data: []byte("CREATE TABLE things (name TEXT NOT NULL);")},
		"README.md":      {Data: []byte("ignored")},
	}
	if err := migrations.RunFS(ctx, db, fsys); err != nil {
		t.Fatalf("RunFS: %v", err)
	}

	applied, err := migrations.Applied(ctx, db)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}
	if len(applied) != 2 || applied[0] != "001_first.sql" || applied[1] != "002_second.sql" {
		t.Fatalf("unexpected applied migrations: %v", applied)
	}

	broken := fstest.MapFS{
		"003_broken.sql": {Data: []byte("INSERT INTO missing_table VALUES (1);")},
	}
	if err := migrations.RunFS(ctx, db, broken); err == nil {
		t.Fatal("expected error for broken migration")
	}

	applied, err = migrations.Applied(ctx, db)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("failed migration must not be recorded, got %v", applied)
	}
}

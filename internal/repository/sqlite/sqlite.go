package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/user-accounts/internal/domain"
	"github.com/msomdec/user-accounts/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB is the SQLite credential store backend.
type DB struct {
	SqlDB *sql.DB
	users *UserRepository
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite has a single writer; one connection also serializes the
	// conditional token updates.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &DB{SqlDB: db}
	d.users = NewUserRepository(d)
	return d, nil
}

// Migrate applies the embedded schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Users returns the user repository bound to this database.
func (d *DB) Users() domain.UserRepository {
	return d.users
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

package domain

import "context"

// Database is a credential store backend. Each implementation (SQLite,
// Postgres) owns its own migration files and strategy, so main can pick a
// backend from configuration alone.
type Database interface {
	Migrate(ctx context.Context) error
	Users() UserRepository
	Close() error
}

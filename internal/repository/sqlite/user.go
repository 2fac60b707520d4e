package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/user-accounts/internal/domain"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = `id, name, email, password_hash, confirmed, pending_token, address, phone, created_at, updated_at`

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, confirmed, pending_token, address, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Confirmed,
		nullString(user.PendingToken), user.Address, user.Phone, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, "pending_token", token)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, address, phone string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, address = ?, phone = ?, updated_at = ? WHERE id = ?`,
		name, address, phone, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return expectOneRow(result)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectOneRow(result)
}

func (r *UserRepository) SetToken(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET pending_token = ?, updated_at = ? WHERE id = ?`,
		nullString(token), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return expectOneRow(result)
}

func (r *UserRepository) ConsumeToken(ctx context.Context, token string, use domain.TokenUse) (string, error) {
	if token == "" {
		return "", domain.ErrNotFound
	}

	now := time.Now().UTC()
	var row *sql.Row
	switch {
	case use.Confirm:
		row = r.db.QueryRowContext(ctx,
			`UPDATE users SET pending_token = NULL, confirmed = 1, updated_at = ?
			 WHERE pending_token = ? RETURNING id`,
			now, token,
		)
	case use.PasswordHash != "":
		row = r.db.QueryRowContext(ctx,
			`UPDATE users SET pending_token = NULL, password_hash = ?, updated_at = ?
			 WHERE pending_token = ? RETURNING id`,
			use.PasswordHash, now, token,
		)
	default:
		return "", fmt.Errorf("%w: token use has no effect", domain.ErrInvalidInput)
	}

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("consume token: %w", err)
	}
	return id, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOneRow(result)
}

// getOne loads a single user by one of the indexed columns. column is never
// user input.
func (r *UserRepository) getOne(ctx context.Context, column, value string) (*domain.User, error) {
	user := &domain.User{}
	var token sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Confirmed,
		&token, &user.Address, &user.Phone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by %s: %w", column, err)
	}
	user.PendingToken = token.String
	return user, nil
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

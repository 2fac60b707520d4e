package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/msomdec/user-accounts/internal/domain"
)

const uniqueViolation = "23505"

// UserRepository implements domain.UserRepository using PostgreSQL.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new PostgreSQL-backed UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query :=
		`INSERT INTO users (id, name, email, password_hash, confirmed, pending_token, address, phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Confirmed,
		nullString(user.PendingToken), user.Address, user.Phone,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, name, email, password_hash, confirmed, pending_token, address, phone, created_at, updated_at
		 FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, name, email, password_hash, confirmed, pending_token, address, phone, created_at, updated_at
		 FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, name, email, password_hash, confirmed, pending_token, address, phone, created_at, updated_at
		 FROM users WHERE pending_token = $1`, token)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, address, phone string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $1, address = $2, phone = $3, updated_at = NOW() WHERE id = $4`,
		name, address, phone, id,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(result)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(result)
}

func (r *UserRepository) SetToken(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET pending_token = $1, updated_at = NOW() WHERE id = $2`,
		nullString(token), id,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(result)
}

func (r *UserRepository) ConsumeToken(ctx context.Context, token string, use domain.TokenUse) (string, error) {
	if token == "" {
		return "", domain.ErrNotFound
	}

	var row *sql.Row
	switch {
	case use.Confirm:
		row = r.db.QueryRowContext(ctx,
			`UPDATE users SET pending_token = NULL, confirmed = TRUE, updated_at = NOW()
			 WHERE pending_token = $1
			 RETURNING id`,
			token,
		)
	case use.PasswordHash != "":
		row = r.db.QueryRowContext(ctx,
			`UPDATE users SET pending_token = NULL, password_hash = $1, updated_at = NOW()
			 WHERE pending_token = $2
			 RETURNING id`,
			use.PasswordHash, token,
		)
	default:
		return "", fmt.Errorf("%w: token use has no effect", domain.ErrInvalidInput)
	}

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(result)
}

func (r *UserRepository) getOne(ctx context.Context, query, arg string) (*domain.User, error) {
	user := &domain.User{}
	var token sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Confirmed,
		&token, &user.Address, &user.Phone, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.PendingToken = token.String
	return user, nil
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package domain

import (
	"context"
	"time"
)

// User represents a registered account.
//
// PendingToken is non-empty exactly while a confirmation or password recovery
// flow is outstanding for the account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Confirmed    bool
	PendingToken string
	Address      string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public projection of a User. It never carries the password
// hash or the pending token.
type Profile struct {
	ID      string
	Name    string
	Email   string
	Address string
	Phone   string
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
		Phone:   u.Phone,
	}
}

// TokenUse describes the state transition applied when a pending token is
// consumed. Exactly one of Confirm or PasswordHash is expected to be set.
type TokenUse struct {
	Confirm      bool
	PasswordHash string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user unless the email is already taken, in which
	// case it returns ErrDuplicateEmail. The check and insert are atomic.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByToken(ctx context.Context, token string) (*User, error)
	// UpdateProfile writes only name, address and phone.
	UpdateProfile(ctx context.Context, id, name, address, phone string) error
	// UpdatePassword writes only the password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetToken(ctx context.Context, id, token string) error
	// ConsumeToken clears the pending token and applies use in a single
	// conditional write. It returns the id of the affected user, or
	// ErrNotFound when no user holds the token.
	ConsumeToken(ctx context.Context, token string, use TokenUse) (string, error)
	Delete(ctx context.Context, id string) error
}

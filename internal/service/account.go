package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/user-accounts/internal/domain"
)

// AccountService drives the account lifecycle: registration, e-mail
// confirmation, login, password recovery and profile maintenance.
//
// An account moves from pending confirmation to active when its confirmation
// token is consumed. Only active accounts may log in or start a recovery.
type AccountService struct {
	users    domain.UserRepository
	hasher   *BcryptHasher
	tokens   *TokenGenerator
	sessions *SessionIssuer
	notifier domain.Notifier
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	users domain.UserRepository,
	hasher *BcryptHasher,
	tokens *TokenGenerator,
	sessions *SessionIssuer,
	notifier domain.Notifier,
) *AccountService {
	return &AccountService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		notifier: notifier,
	}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Profile domain.Profile
	Token   string
}

// Register creates an unconfirmed account and e-mails its confirmation token.
//
// If the e-mail cannot be sent the account is already stored; the returned
// error wraps domain.ErrEmailSendFailure and the user is returned alongside it.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PendingToken: token,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, storeFailure("create user", err)
	}
	slog.Info("account registered", "user_id", user.ID)

	if err := s.notifier.SendConfirmation(ctx, user, token); err != nil {
		slog.Error("send confirmation email", "user_id", user.ID, "error", err)
		return user, fmt.Errorf("%w: %w", domain.ErrEmailSendFailure, err)
	}

	return user, nil
}

// Login checks credentials and issues a bearer credential.
// Checks run in order: account exists, account confirmed, password matches.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmailNotFound
		}
		return nil, storeFailure("get user by email", err)
	}

	if !user.Confirmed {
		return nil, domain.ErrAccountNotConfirmed
	}

	// An empty password is a mismatch here, not malformed input.
	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &LoginResult{Profile: user.Profile(), Token: token}, nil
}

// ConfirmAccount consumes a confirmation token and activates the account.
// A consumed token cannot be replayed.
func (s *AccountService) ConfirmAccount(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrTokenNotFound
	}

	id, err := s.users.ConsumeToken(ctx, token, domain.TokenUse{Confirm: true})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		return storeFailure("consume token", err)
	}

	slog.Info("account confirmed", "user_id", id)
	return nil
}

// RequestPasswordRecovery issues a fresh one-time token for an active
// account and e-mails it.
func (s *AccountService) RequestPasswordRecovery(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrEmailNotFound
		}
		return storeFailure("get user by email", err)
	}

	if !user.Confirmed {
		return domain.ErrAccountNotConfirmed
	}

	token, err := s.tokens.Generate()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	if err := s.users.SetToken(ctx, user.ID, token); err != nil {
		return storeFailure("set token", err)
	}
	user.PendingToken = token
	slog.Info("password recovery requested", "user_id", user.ID)

	if err := s.notifier.SendRecovery(ctx, user, token); err != nil {
		slog.Error("send recovery email", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrEmailSendFailure, err)
	}
	return nil
}

// ValidateRecoveryToken reports whether token is outstanding. It changes
// nothing.
func (s *AccountService) ValidateRecoveryToken(ctx context.Context, token string) error {
	_, err := s.userByToken(ctx, token)
	return err
}

// CompletePasswordRecovery replaces the password of the account holding
// token and consumes the token.
func (s *AccountService) CompletePasswordRecovery(ctx context.Context, token, newPassword string) error {
	if _, err := s.userByToken(ctx, token); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	// The token may have been consumed since the lookup; the conditional
	// write decides.
	id, err := s.users.ConsumeToken(ctx, token, domain.TokenUse{PasswordHash: hash})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		return storeFailure("consume token", err)
	}

	slog.Info("password reset", "user_id", id)
	return nil
}

// Authenticate resolves a bearer credential to the profile of a live account.
func (s *AccountService) Authenticate(ctx context.Context, bearer string) (domain.Profile, error) {
	if bearer == "" {
		return domain.Profile{}, domain.ErrMissingToken
	}

	id, err := s.sessions.Verify(bearer)
	if err != nil {
		return domain.Profile{}, err
	}

	user, err := s.resolve(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return domain.Profile{}, domain.ErrInvalidToken
		}
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

// GetProfile returns the public profile of the user.
func (s *AccountService) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	user, err := s.resolve(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

// UpdateProfile replaces name, address and phone.
func (s *AccountService) UpdateProfile(ctx context.Context, id, name, address, phone string) (domain.Profile, error) {
	user, err := s.resolve(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Profile{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	address = strings.TrimSpace(address)
	phone = strings.TrimSpace(phone)

	if err := s.users.UpdateProfile(ctx, user.ID, name, address, phone); err != nil {
		return domain.Profile{}, s.mutationFailure("update user", err)
	}
	user.Name, user.Address, user.Phone = name, address, phone
	return user.Profile(), nil
}

// VerifyCurrentPassword reports whether password matches the stored hash.
func (s *AccountService) VerifyCurrentPassword(ctx context.Context, id, password string) (bool, error) {
	user, err := s.resolve(ctx, id)
	if err != nil {
		return false, err
	}
	return s.hasher.Verify(password, user.PasswordHash)
}

// UpdatePassword re-hashes and stores a new password. Bearer credentials
// issued earlier stay valid until they expire.
func (s *AccountService) UpdatePassword(ctx context.Context, id, newPassword string) error {
	user, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return s.mutationFailure("update password", err)
	}
	slog.Info("password updated", "user_id", user.ID)
	return nil
}

// DeleteAccount removes the account permanently.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	user, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return s.mutationFailure("delete user", err)
	}
	slog.Info("account deleted", "user_id", user.ID)
	return nil
}

func (s *AccountService) resolve(ctx context.Context, id string) (*domain.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	user, err := s.users.GetByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeFailure("get user by id", err)
	}
	return user, nil
}

func (s *AccountService) userByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrTokenNotFound
	}

	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, storeFailure("get user by token", err)
	}
	return user, nil
}

// mutationFailure maps a write that lost a race with a delete to
// ErrUserNotFound.
func (s *AccountService) mutationFailure(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return storeFailure(op, err)
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreFailure, op, err)
}

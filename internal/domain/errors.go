package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrDuplicateEmail      = errors.New("email already exists")
	ErrEmailNotFound       = errors.New("email is not registered")
	ErrAccountNotConfirmed = errors.New("account is not confirmed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenNotFound       = errors.New("token not found")
	ErrInvalidID           = errors.New("invalid id")
	ErrUserNotFound        = errors.New("user not found")
	ErrMissingToken        = errors.New("missing bearer token")
	ErrInvalidToken        = errors.New("invalid bearer token")
	ErrEmailSendFailure    = errors.New("email could not be sent")
	ErrStoreFailure        = errors.New("store failure")
)

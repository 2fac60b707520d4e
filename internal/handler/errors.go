package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/user-accounts/internal/domain"
)

const unexpectedErrorMessage = "An unexpected error occurred. Please try again."

// lifecycleMessages are the client-facing messages of the account errors.
var lifecycleMessages = []struct {
	err error
	msg string
}{
	{domain.ErrDuplicateEmail, "This e-mail is already registered, try another one."},
	{domain.ErrEmailNotFound, "This e-mail is not registered."},
	{domain.ErrAccountNotConfirmed, "The account is not active yet, check your e-mail to activate it."},
	{domain.ErrInvalidCredentials, "The password is incorrect, try again."},
	{domain.ErrTokenNotFound, "The token is not valid."},
	{domain.ErrInvalidID, "The id is not valid."},
	{domain.ErrUserNotFound, "User not found."},
	{domain.ErrEmailSendFailure, "The e-mail could not be sent, try again later."},
}

// writeServiceError answers a failed service call. Account errors get status,
// invalid input gets 400, and anything else is logged and answered with 500.
func writeServiceError(w http.ResponseWriter, op string, err error, status int) {
	if errors.Is(err, domain.ErrStoreFailure) {
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, unexpectedErrorMessage)
		return
	}

	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, m := range lifecycleMessages {
		if errors.Is(err, m.err) {
			writeError(w, status, m.msg)
			return
		}
	}

	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, unexpectedErrorMessage)
}

// writeRequestError answers a body that could not be decoded or validated.
func writeRequestError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"msg":    "Validation failed.",
			"fields": verr.Fields,
		})
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body.")
}

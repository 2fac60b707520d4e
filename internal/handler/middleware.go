package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/user-accounts/internal/domain"
	"github.com/msomdec/user-accounts/internal/service"
)

type contextKey string

const profileContextKey contextKey = "profile"

// ProfileFromContext returns the authenticated profile stored by RequireAuth.
// The second result is false when the request was not authenticated.
func ProfileFromContext(ctx context.Context) (domain.Profile, bool) {
	profile, ok := ctx.Value(profileContextKey).(domain.Profile)
	return profile, ok
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads the bearer credential from the Authorization header, resolves it
// to a live account and injects the profile into the request context.
//
// Missing or invalid credentials get 403; a credential for an account that
// no longer exists gets 404.
func RequireAuth(accounts *service.AccountService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := accounts.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrMissingToken):
				writeError(w, http.StatusForbidden, "Bearer token is missing.")
			case errors.Is(err, domain.ErrInvalidToken):
				writeError(w, http.StatusForbidden, "Bearer token is not valid.")
			case errors.Is(err, domain.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found.")
			default:
				slog.Error("authenticate request", "error", err)
				writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
			}
			return
		}

		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// It returns "" when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// SecurityHeaders sets conservative response headers for a JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// CORS allows cross-origin requests from a single origin. An empty origin
// disables CORS headers entirely. Preflight requests are answered directly.
func CORS(origin string, next http.Handler) http.Handler {
	if origin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") == origin {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Set("Access-Control-Max-Age", "600")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request with method, route, status and duration.
// The route is the matched mux pattern, never the raw path: confirmation and
// recovery paths carry one-time tokens.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// ServeMux records the pattern on the request it was handed.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		slog.Info("http request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

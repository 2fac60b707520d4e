package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

const validSecret = "0123456789abcdef0123456789abcdef"

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_URL", "JWT_SECRET",
		"BCRYPT_COST", "SESSION_TTL", "FRONTEND_URL", "CORS_ORIGIN", "SMTP_HOST",
		"SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "MAIL_FROM", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", validSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseDriver != DriverSQLite || cfg.DatabasePath != "accounts.db" {
		t.Fatalf("unexpected database defaults: %s %s", cfg.DatabaseDriver, cfg.DatabasePath)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Fatalf("expected 30 day session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.SMTPPort != 465 {
		t.Fatalf("expected SMTP port 465, got %d", cfg.SMTPPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %s", cfg.LogLevel)
	}
	if cfg.MailEnabled() {
		t.Fatal("expected mail to be disabled without SMTP_HOST")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/accounts")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_USERNAME", "support@example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" || cfg.DatabaseDriver != DriverPostgres || cfg.BcryptCost != 12 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("expected 1h TTL, got %s", cfg.SessionTTL)
	}
	if !cfg.MailEnabled() || cfg.SMTPPort != 587 {
		t.Fatalf("unexpected SMTP settings: %+v", cfg)
	}
	if cfg.MailFrom != "support@example.com" {
		t.Fatalf("expected MAIL_FROM to fall back to SMTP_USERNAME, got %q", cfg.MailFrom)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET environment variable is required"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "at least 32 characters"},
		{"bad driver", map[string]string{"JWT_SECRET": validSecret, "DATABASE_DRIVER": "mysql"}, "DATABASE_DRIVER"},
		{"postgres without url", map[string]string{"JWT_SECRET": validSecret, "DATABASE_DRIVER": "postgres"}, "DATABASE_URL"},
		{"cost not a number", map[string]string{"JWT_SECRET": validSecret, "BCRYPT_COST": "high"}, "BCRYPT_COST"},
		{"cost out of range", map[string]string{"JWT_SECRET": validSecret, "BCRYPT_COST": "3"}, "between 4 and 31"},
		{"bad ttl", map[string]string{"JWT_SECRET": validSecret, "SESSION_TTL": "forever"}, "SESSION_TTL"},
		{"negative ttl", map[string]string{"JWT_SECRET": validSecret, "SESSION_TTL": "-1h"}, "SESSION_TTL"},
		{"bad smtp port", map[string]string{"JWT_SECRET": validSecret, "SMTP_PORT": "x"}, "SMTP_PORT"},
		{"bad log level", map[string]string{"JWT_SECRET": validSecret, "LOG_LEVEL": "loud"}, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime settings for the accounts service.
type Config struct {
	Port string

	DatabaseDriver string
	DatabasePath   string // sqlite file
	DatabaseURL    string // postgres DSN

	JWTSecret  string
	BcryptCost int
	SessionTTL time.Duration

	FrontendURL string
	CORSOrigin  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	LogLevel slog.Level
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseDriver: envOrDefault("DATABASE_DRIVER", DriverSQLite),
		DatabasePath:   envOrDefault("DATABASE_PATH", "accounts.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		FrontendURL:    envOrDefault("FRONTEND_URL", "http://localhost:3000"),
		CORSOrigin:     os.Getenv("CORS_ORIGIN"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		MailFrom:       os.Getenv("MAIL_FROM"),
	}

	var errs []error

	switch cfg.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DATABASE_DRIVER is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.DatabaseDriver))
	}

	switch {
	case cfg.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	case len(cfg.JWTSecret) < 32:
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}

	cost, err := intEnv("BCRYPT_COST", 10)
	switch {
	case err != nil:
		errs = append(errs, err)
	case cost < 4 || cost > 31:
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cost))
	}
	cfg.BcryptCost = cost

	ttl, err := time.ParseDuration(envOrDefault("SESSION_TTL", "720h"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("invalid SESSION_TTL: %w", err))
	case ttl <= 0:
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl))
	}
	cfg.SessionTTL = ttl

	port, err := intEnv("SMTP_PORT", 465)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.SMTPPort = port
	if cfg.SMTPHost != "" && cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUsername
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MailEnabled reports whether an SMTP server is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func envOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func intEnv(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

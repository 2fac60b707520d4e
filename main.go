package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/user-accounts/internal/config"
	"github.com/msomdec/user-accounts/internal/domain"
	"github.com/msomdec/user-accounts/internal/handler"
	"github.com/msomdec/user-accounts/internal/mail"
	"github.com/msomdec/user-accounts/internal/repository/postgres"
	"github.com/msomdec/user-accounts/internal/repository/sqlite"
	"github.com/msomdec/user-accounts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := openDatabase(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.DatabaseDriver)

	var sender domain.Sender = mail.LogSender{}
	if cfg.MailEnabled() {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		slog.Warn("SMTP_HOST not set, e-mails will only be logged")
	}

	accounts := service.NewAccountService(
		db.Users(),
		service.NewBcryptHasher(cfg.BcryptCost),
		service.NewTokenGenerator(),
		service.NewSessionIssuer(cfg.JWTSecret, cfg.SessionTTL),
		mail.NewNotifier(sender, cfg.FrontendURL),
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, accounts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.AccessLog(handler.CORS(cfg.CORSOrigin, handler.SecurityHeaders(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		return sqlite.New(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BhargavGarge/devpulse/internal/advisor"
	"github.com/BhargavGarge/devpulse/internal/config"
	"github.com/BhargavGarge/devpulse/internal/database/database"
	"github.com/BhargavGarge/devpulse/internal/database/migrate"
	"github.com/BhargavGarge/devpulse/internal/githubapi"
	"github.com/BhargavGarge/devpulse/internal/health"
	"github.com/BhargavGarge/devpulse/internal/middleware"
	prmetricsRouter "github.com/BhargavGarge/devpulse/internal/prmetrics/router"
	"github.com/BhargavGarge/devpulse/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if cfg.AutoMigrate {
		if err := migrate.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations applied")
	} else {
		log.Info("DB_AUTO_MIGRATE disabled, skipping migrations")
	}

	gh, err := githubapi.New(cfg.GitHub, log)
	if err != nil {
		return fmt.Errorf("failed to create github client: %w", err)
	}
	if cfg.GitHub.Token == "" {
		log.Warn("GITHUB_TOKEN is not set, using unauthenticated GitHub requests")
	}
	adv := advisor.New(cfg.Advisor, log)
	if !cfg.Advisor.Enabled() {
		log.Info("narrative advisor disabled")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	health.RegisterRoutes(r, health.New(db, health.Integrations{
		GitHubAuthenticated: cfg.GitHub.Token != "",
		AdvisorEnabled:      cfg.Advisor.Enabled(),
	}, log))
	prmetricsRouter.RegisterRoutes(r, prmetricsRouter.Dependencies{
		DB:      db,
		GitHub:  gh,
		Advisor: adv,
		PRLimit: cfg.GitHub.PRLimit,
		Logger:  log,
	})

	return serve(ctx, cfg.Server, r, log)
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, cfg config.ServerConfig, handler http.Handler, log *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:         cfg.GetAddress(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("HTTP server stopped")
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

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

	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/auth/postgres"
	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/logging"
	"github.com/authgate/authgate/internal/observability"
	"github.com/authgate/authgate/internal/store"
	"github.com/authgate/authgate/internal/web"
)

// Default values for serve command flags.
const (
	defaultListenAddr  = ":8080"
	defaultMetricsAddr = "127.0.0.1:9100"
	defaultLogFormat   = "json"

	shutdownTimeout = 5 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication server",
		Long: `Start the HTTP server that handles registration, login, and
token-gated profile lookup. Requires a PostgreSQL database and a token
signing secret.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd)
		},
	}

	// Flag names double as config file keys, so they use underscores.
	cmd.Flags().String("listen_addr", defaultListenAddr, "HTTP listen address")
	cmd.Flags().String("metrics_addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database_url", "", "PostgreSQL connection URL (or DATABASE_URL)")
	cmd.Flags().String("token_secret", "", "token signing secret (or AUTHGATE_TOKEN_SECRET)")
	cmd.Flags().Duration("token_ttl", auth.DefaultTokenTTL, "issued token lifetime")
	cmd.Flags().String("log_format", defaultLogFormat, "log format (json or text)")
	cmd.Flags().String("log_level", "info", "log level (debug, info, warn, or error)")
	cmd.Flags().Bool("auto_migrate", false, "apply pending schema migrations on startup")

	return cmd
}

// runServe starts the HTTP server and blocks until a shutdown signal.
func runServe(ctx context.Context, cfg *config.Config, cmd *cobra.Command) error {
	logging.SetDefault("authgate", version, cfg.LogFormat, cfg.SlogLevel())

	slog.Info("starting server",
		"listen_addr", cfg.ListenAddr,
		"metrics_addr", cfg.MetricsAddr,
		"token_ttl", cfg.TokenTTL.String(),
	)

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if autoMigrate, _ := cmd.Flags().GetBool("auto_migrate"); autoMigrate {
		migrator, migErr := store.NewMigrator(cfg.DatabaseURL)
		if migErr != nil {
			return migErr
		}
		if migErr = migrator.Up(); migErr != nil {
			_ = migrator.Close()
			return migErr
		}
		if migErr = migrator.Close(); migErr != nil {
			slog.Warn("error closing migrator", "error", migErr)
		}
		slog.Info("schema migrations applied")
	}

	tokens, err := auth.NewTokenService([]byte(cfg.TokenSecret), cfg.TokenTTL)
	if err != nil {
		return err
	}

	svc, err := auth.NewService(postgres.NewUserRepository(pool), auth.NewBcryptHasher(), tokens)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured. Readiness follows database
	// reachability so a lost connection takes the pod out of rotation.
	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(ctx, time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, obsErr := obsServer.Start()
		if obsErr != nil {
			return fmt.Errorf("failed to start observability server: %w", obsErr)
		}
		go func() {
			if serveErr := <-obsErrCh; serveErr != nil {
				slog.Error("observability server error", "error", serveErr)
			}
		}()
		metrics = obsServer.Metrics()
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	handler := web.NewHandler(svc, metrics, slog.Default())
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           web.NewRouter(handler, tokens),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			serveErrCh <- serveErr
		}
	}()

	cmd.Println("Server started on " + cfg.ListenAddr)
	slog.Info("server ready", "listen_addr", cfg.ListenAddr)

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case serveErr := <-serveErrCh:
		slog.Error("http server error", "error", serveErr)
		err = serveErr
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Warn("error shutting down http server", "error", shutdownErr)
	}
	if obsServer != nil {
		if stopErr := obsServer.Stop(shutdownCtx); stopErr != nil {
			slog.Warn("error stopping observability server", "error", stopErr)
		}
	}

	slog.Info("shutdown complete")
	return err
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authgate Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/store"
)

// statusTimeout bounds the single reachability probe; unlike serve, status
// does not wait out a connection retry window.
const statusTimeout = 5 * time.Second

// ServiceStatus holds the status information reported by the status command.
type ServiceStatus struct {
	Database         string `json:"database"`
	MigrationVersion uint   `json:"migration_version"`
	MigrationDirty   bool   `json:"migration_dirty"`
	Error            string `json:"error,omitempty"`
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database and migration status",
		Long:  `Check database reachability and report the current schema migration version.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().String("database_url", "", "PostgreSQL connection URL (or DATABASE_URL)")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, jsonOutput bool) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set database_url or DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	status := probeStatus(ctx, cfg.DatabaseURL)

	if jsonOutput {
		raw, marshalErr := json.MarshalIndent(status, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to format JSON: %w", marshalErr)
		}
		cmd.Println(string(raw))
	} else {
		cmd.Printf("Database:   %s\n", status.Database)
		if status.Database == "reachable" {
			if status.MigrationVersion == 0 {
				cmd.Println("Migrations: none applied")
			} else {
				cmd.Printf("Migrations: version %d (dirty: %t)\n", status.MigrationVersion, status.MigrationDirty)
			}
		}
	}

	if status.Error != "" {
		return oops.Code("STATUS_CHECK_FAILED").Errorf("%s", status.Error)
	}
	return nil
}

// probeStatus performs the reachability and migration checks.
func probeStatus(ctx context.Context, databaseURL string) ServiceStatus {
	status := ServiceStatus{Database: "unreachable"}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Database = "reachable"

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.MigrationVersion = version
	status.MigrationDirty = dirty
	return status
}

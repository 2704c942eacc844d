// Package cmd holds the command-line entry points: the HTTP server, the
// sync jobs and the MCP stdio server.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/app"
	"github.com/tbourn/go-congress-backend/internal/config"
	"github.com/tbourn/go-congress-backend/internal/observability"
	"github.com/tbourn/go-congress-backend/internal/repo"
	"github.com/tbourn/go-congress-backend/internal/sysutil"
)

// Version is stamped at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

var envFiles []string

// cfg is loaded once per invocation by rootCmd's pre-run hook.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "congress",
	Short: "Congress data backend",
	Long: `Serves members, bills and roll-call votes of the U.S. Congress from a
local store that is filled from api.congress.gov and senate.gov, plus a
tool-using assistant over the same data.

Configuration comes from the environment, optional .env files and an
optional YAML file named by CONFIG_FILE.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotenv(envFiles...); err != nil {
			return fmt.Errorf("load env files: %w", err)
		}
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, logWriter(cmd))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	rootCmd.Version = Version
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func logWriter(cmd *cobra.Command) io.Writer {
	return cmd.ErrOrStderr()
}

// bootstrap opens and migrates the store, starts tracing and wires the
// services. The returned cleanup flushes spans and closes the database.
func bootstrap(ctx context.Context) (*app.App, func(), error) {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, Version)
	if err != nil {
		return nil, nil, fmt.Errorf("setup otel: %w", err)
	}

	db, err := repo.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		_ = shutdownOTel(ctx)
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		_ = shutdownOTel(ctx)
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database ready")

	cleanup := func() {
		closeDB(db)
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}
	return app.New(cfg, db, nil), cleanup, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

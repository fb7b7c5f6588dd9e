package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/lalith-99/deskchat/internal/config"
	"github.com/lalith-99/deskchat/internal/db"
	"github.com/lalith-99/deskchat/internal/observ"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			return withMigrator(cmd.Context(), func(ctx context.Context, m *db.Migrator) error {
				return m.Down(ctx, steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), func(ctx context.Context, m *db.Migrator) error {
					return m.Up(ctx)
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Print applied and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), func(ctx context.Context, m *db.Migrator) error {
					return m.Status(ctx)
				})
			},
		},
	)
	return cmd
}

func withMigrator(ctx context.Context, fn func(context.Context, *db.Migrator) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("migrations need store=%s, got %q", config.StorePostgres, cfg.Store)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.New(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: 2}, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	migrator, err := db.NewMigrator(database, logger)
	if err != nil {
		return err
	}
	if err := fn(ctx, migrator); err != nil {
		logger.Error("migration failed", zap.Error(err))
		return err
	}
	return nil
}

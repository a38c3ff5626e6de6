package main

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/invoicedesk/internal/config"
	"github.com/smallbiznis/invoicedesk/internal/observability"
	"github.com/smallbiznis/invoicedesk/internal/seed"
	"github.com/smallbiznis/invoicedesk/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const commandTimeout = 2 * time.Minute

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithStore(cmd.Context(), func(ctx context.Context, store storage.Store, log *zap.Logger) error {
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied", zap.String("backend", store.Backend()))
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithStore(cmd.Context(), func(ctx context.Context, store storage.Store, log *zap.Logger) error {
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			res, err := seed.Run(ctx, store)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("seed completed",
				zap.Int("users", res.Users),
				zap.Int("customers", res.Customers),
				zap.Int("invoices", res.Invoices),
				zap.Int("revenue", res.Revenue),
			)
			return nil
		})
	},
}

// runWithStore starts only the storage graph, runs fn and shuts down.
func runWithStore(parent context.Context, fn func(context.Context, storage.Store, *zap.Logger) error) error {
	if parent == nil {
		parent = context.Background()
	}

	var (
		store storage.Store
		log   *zap.Logger
	)
	app := fx.New(
		config.Module,
		observability.Module,
		storage.Module,
		fx.Populate(&store, &log),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	runErr := fn(ctx, store, log)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

package main

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-warehouse-service/internal/schema"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the warehouse tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connectDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := schema.Migrate(context.Background(), db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		appLogger.Info("Schema is up to date", zap.String("db_name", cfg.Postgres.DBName))
		return nil
	},
}

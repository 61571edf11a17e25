package main

import (
	"github.com/spf13/cobra"

	"tjbot/config"
	"tjbot/internal/repository/postgres"
	"tjbot/internal/repository/sqlite"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tags table for the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger()
			ctx := cmd.Context()

			switch cfg.DatabaseDriver {
			case config.DriverPostgres:
				db, err := postgres.Open(ctx, cfg.DBUrl)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := postgres.Migrate(ctx, db); err != nil {
					return err
				}
			case config.DriverSQLite:
				// Open applies the schema.
				store, err := sqlite.Open(cfg.SQLitePath)
				if err != nil {
					return err
				}
				if err := store.Close(); err != nil {
					return err
				}
			default:
				logger.Info("nothing to migrate", "driver", cfg.DatabaseDriver)
				return nil
			}
			logger.Info("schema is up to date", "driver", cfg.DatabaseDriver)
			return nil
		},
	}
}

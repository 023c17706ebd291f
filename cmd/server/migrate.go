package main

import (
	"fmt"

	"github.com/localnerve/viverodb/internal/database"
	"github.com/spf13/cobra"
)

func migrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("Schema migrated", "database", cfg.DBType, "tables", len(database.Models()))
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/localnerve/viverodb/data"
	"github.com/localnerve/viverodb/internal/database"
	"github.com/localnerve/viverodb/internal/services"
	"github.com/localnerve/viverodb/internal/store"
	"github.com/spf13/cobra"
)

func seedCommand(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data when no producer exists yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			raw := data.Seed
			if file != "" {
				if raw, err = os.ReadFile(file); err != nil {
					return fmt.Errorf("failed to read seed file: %w", err)
				}
			}

			summary, err := services.NewSeeder(store.New(db), log, nil).Seed(cmd.Context(), raw)
			if err != nil {
				return err
			}
			if summary.Skipped {
				log.Info("Seed skipped, producers already exist")
				return nil
			}
			log.Info("Seed loaded",
				"products", summary.Products,
				"producers", summary.Producers,
				"farms", summary.Farms,
				"nurseries", summary.Nurseries,
				"tasks", summary.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed JSON file to load instead of the built-in demo data")
	return cmd
}

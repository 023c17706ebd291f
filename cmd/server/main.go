// main.go
//
// Agricultural nursery record-keeping data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of viverodb.
// viverodb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// viverodb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with viverodb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/localnerve/viverodb/internal/config"
	"github.com/localnerve/viverodb/internal/database"
	"github.com/localnerve/viverodb/internal/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	_ "github.com/localnerve/viverodb/docs/api" // Swagger docs
)

// @title viverodb API
// @version 1.0.0
// @description Record keeping for producers, farms, nurseries, tasks and control products
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/viverodb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// options are the persistent flags shared by every command
type options struct {
	envFile    string
	configFile string
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCommand creates the viverodb command. Without a subcommand it serves the API.
func rootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "viverodb",
		Short:        "Agricultural nursery record-keeping service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to a .env file loaded before the environment is read")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a config file (yaml, json, toml or env)")

	rootCmd.AddCommand(serveCommand(opts), migrateCommand(opts), seedCommand(opts))
	return rootCmd
}

// bootstrap loads the configuration, builds the logger and opens the database
func bootstrap(opts *options) (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(opts.envFile, opts.configFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, log, db, nil
}

// config.go
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

package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string
	CORSOrigins string

	// Database configuration
	DBType            string // mysql, mariadb, postgres, sqlite, sqlite-pure, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string // file path for the sqlite types
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string // silent, error, warn, info

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// defaultPorts are used when DB_PORT is not set
var defaultPorts = map[string]string{
	"mysql":     "3306",
	"mariadb":   "3306",
	"postgres":  "5432",
	"sqlserver": "1433",
}

// IsNetworkDB reports whether the database type is reached over TCP
func (c *Config) IsNetworkDB() bool {
	_, ok := defaultPorts[c.DBType]
	return ok
}

// Load loads configuration from the environment. An envFile is loaded into the environment
// first without overriding variables already set; a configFile (yaml, json, toml or env) supplies
// values the environment does not.
func Load(envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	return FromViper(v)
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:              v.GetString("PORT"),
		CORSOrigins:       v.GetString("CORS_ORIGINS"),
		DBType:            strings.ToLower(v.GetString("DB_TYPE")),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBDatabase:        v.GetString("DB_DATABASE"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBConnectionLimit: v.GetInt("DB_CONNECTION_LIMIT"),
		DBLogLevel:        v.GetString("DB_LOG_LEVEL"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
	}

	if cfg.DBType == "postgresql" {
		cfg.DBType = "postgres"
	}
	if cfg.DBType == "mssql" {
		cfg.DBType = "sqlserver"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = defaultPorts[cfg.DBType]
	}
	if cfg.DBConnectionLimit < 1 {
		cfg.DBConnectionLimit = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	switch c.DBType {
	case "mysql", "mariadb", "postgres", "sqlserver", "sqlite", "sqlite-pure":
	default:
		return fmt.Errorf("unsupported database type: %s", c.DBType)
	}
	if c.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	if c.IsNetworkDB() {
		if c.DBHost == "" {
			return fmt.Errorf("DB_HOST is required for %s", c.DBType)
		}
		if c.DBUser == "" {
			return fmt.Errorf("DB_USER is required for %s", c.DBType)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_TYPE", "sqlite-pure")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_CONNECTION_LIMIT", 5)
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

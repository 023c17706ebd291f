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
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/localnerve/viverodb/internal/config"
	"github.com/localnerve/viverodb/internal/database"
	"github.com/localnerve/viverodb/internal/logger"
	"github.com/localnerve/viverodb/internal/services"
)

func main() {
	os.Exit(run())
}

// run checks the configured database once and returns the process exit code
func run() int {
	var envFile string
	flag.StringVar(&envFile, "f", "", "path to the .env file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(envFile, "")
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	slogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg, slogger)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return 1
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Perform health check
	result := services.HealthCheck(ctx, cfg, db, slogger)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal health check result: %v", err)
		return 1
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		return 1
	}
	return 0
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/localnerve/viverodb/internal/config"
	"github.com/localnerve/viverodb/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks the database server and the connection pool
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *slog.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	fail := func(state, detailKey string, err error, msg string) {
		result.Status = "unhealthy"
		result.Database = state
		result.Details[detailKey] = err.Error()
		result.ErrorMessage = fmt.Sprintf("%s: %v", msg, err)
		log.Warn("Health check failed", "check", detailKey, "error", err)
	}

	// A network database server must accept TCP connections before the pool is tried
	if cfg.IsNetworkDB() {
		if err := utils.PingDatabase(cfg.DBHost, cfg.DBPort); err != nil {
			fail("unreachable", "database_server_error", err, "Database server unreachable")
			return result
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		fail("error", "database_error", err, "Database connection error")
		return result
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		fail("unreachable", "database_ping_error", err, "Database ping failed")
		return result
	}

	result.Database = "ok"
	result.Details["database_type"] = cfg.DBType
	result.Details["database_name"] = cfg.DBDatabase
	log.Debug("Health check passed")

	return result
}

package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/viverodb/internal/config"
	"github.com/localnerve/viverodb/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports database reachability
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *slog.Logger
}

// Health handles GET /health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	log := h.Log
	if log == nil {
		log = slog.Default()
	}

	result := services.HealthCheck(c.UserContext(), h.Config, h.DB, log)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}

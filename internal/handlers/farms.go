package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/viverodb/internal/export"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/services"
	"github.com/localnerve/viverodb/internal/types"
	"github.com/localnerve/viverodb/internal/utils"
)

// FarmHandler handles farm and nursery routes
type FarmHandler struct {
	Farms *services.FarmService
}

// GetFarm handles GET /api/farms/:id
// @Summary Get a farm with its nurseries
// @Tags Farms
// @Produce json
// @Param id path int true "Farm ID"
// @Success 200 {object} models.Farm
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /farms/{id} [get]
func (h *FarmHandler) GetFarm(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "getFarm")
	}

	farm, err := h.Farms.GetFarm(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getFarm")
	}
	if farm == nil {
		return utils.NotFoundResponse(c, "Farm not found")
	}
	return utils.SuccessResponse(c, farm, fiber.StatusOK)
}

// FindByCadastralNumber handles GET /api/farms/cadastral/:number
// @Summary Find a farm by cadastral number
// @Tags Farms
// @Produce json
// @Param number path string true "Cadastral number"
// @Success 200 {object} models.Farm
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /farms/cadastral/{number} [get]
func (h *FarmHandler) FindByCadastralNumber(c *fiber.Ctx) error {
	number := c.Params("number")

	farm, err := h.Farms.FindByCadastralNumber(c.UserContext(), number)
	if err != nil {
		return fail(c, err, "findByCadastralNumber")
	}
	if farm == nil {
		return utils.NotFoundResponse(c, fmt.Sprintf("Farm with cadastral number '%s' not found", number))
	}
	return utils.SuccessResponse(c, farm, fiber.StatusOK)
}

// GetNurseries handles GET /api/farms/:id/nurseries
// @Summary List the nurseries of a farm
// @Tags Farms
// @Produce json
// @Param id path int true "Farm ID"
// @Success 200 {array} models.Nursery
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /farms/{id}/nurseries [get]
func (h *FarmHandler) GetNurseries(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "getNurseriesByFarm")
	}

	nurseries, err := h.Farms.GetNurseriesByFarm(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getNurseriesByFarm")
	}
	return utils.SuccessResponse(c, nurseries, fiber.StatusOK)
}

// AddNursery handles POST /api/farms/:id/nurseries
// @Summary Add a nursery to a farm
// @Tags Farms
// @Accept json
// @Produce json
// @Param id path int true "Farm ID"
// @Param body body models.Nursery true "Nursery"
// @Success 201 {object} models.Nursery
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /farms/{id}/nurseries [post]
func (h *FarmHandler) AddNursery(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "addNurseryToFarm")
	}

	var body models.Nursery
	if err := decode(c, &body); err != nil {
		return fail(c, err, "addNurseryToFarm")
	}

	nursery, err := h.Farms.AddNurseryToFarm(c.UserContext(), id, &body)
	if err != nil {
		return fail(c, err, "addNurseryToFarm")
	}
	return utils.CreatedResponse(c, nursery)
}

// RemoveNursery handles DELETE /api/farms/:id/nurseries/:nurseryId
// @Summary Remove a nursery from a farm
// @Description Delete a nursery of the farm with its tasks
// @Tags Farms
// @Param id path int true "Farm ID"
// @Param nurseryId path int true "Nursery ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /farms/{id}/nurseries/{nurseryId} [delete]
func (h *FarmHandler) RemoveNursery(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "removeNurseryFromFarm")
	}
	nurseryID, err := paramID(c, "nurseryId")
	if err != nil {
		return fail(c, err, "removeNurseryFromFarm")
	}

	if err := h.Farms.RemoveNurseryFromFarm(c.UserContext(), id, nurseryID); err != nil {
		return fail(c, err, "removeNurseryFromFarm")
	}
	return utils.NoContentResponse(c)
}

// GetNurseriesByCropType handles GET /api/nurseries?cropType=
// @Summary List nurseries by crop type
// @Tags Nurseries
// @Produce json
// @Param cropType query string true "Crop type"
// @Success 200 {array} models.Nursery
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /nurseries [get]
func (h *FarmHandler) GetNurseriesByCropType(c *fiber.Ctx) error {
	cropType := c.Query("cropType")
	if cropType == "" {
		return fail(c, types.NewValidationError("cropType is required"), "getNurseriesByCropType")
	}

	nurseries, err := h.Farms.GetNurseriesByCropType(c.UserContext(), cropType)
	if err != nil {
		return fail(c, err, "getNurseriesByCropType")
	}
	return utils.SuccessResponse(c, nurseries, fiber.StatusOK)
}

// GetNursery handles GET /api/nurseries/:id
// @Summary Get a nursery with its tasks
// @Tags Nurseries
// @Produce json
// @Param id path int true "Nursery ID"
// @Success 200 {object} models.Nursery
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /nurseries/{id} [get]
func (h *FarmHandler) GetNursery(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "getNursery")
	}

	nursery, err := h.Farms.GetNursery(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getNursery")
	}
	if nursery == nil {
		return utils.NotFoundResponse(c, "Nursery not found")
	}
	return utils.SuccessResponse(c, nursery, fiber.StatusOK)
}

// ExportTasks handles GET /api/nurseries/:id/tasks.xlsx
// @Summary Download the task log of a nursery
// @Tags Nurseries
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Nursery ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /nurseries/{id}/tasks.xlsx [get]
func (h *FarmHandler) ExportTasks(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "exportTasks")
	}

	nursery, err := h.Farms.GetNursery(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "exportTasks")
	}
	if nursery == nil {
		return utils.NotFoundResponse(c, "Nursery not found")
	}

	out, err := export.TaskLog(nursery)
	if err != nil {
		return fail(c, err, "exportTasks")
	}

	c.Attachment(fmt.Sprintf("nursery-%d-tasks.xlsx", id))
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.Status(fiber.StatusOK).Send(out)
}

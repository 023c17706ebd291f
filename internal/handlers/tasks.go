// tasks.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/services"
	"github.com/localnerve/viverodb/internal/types"
	"github.com/localnerve/viverodb/internal/utils"
)

// TaskHandler handles task routes
type TaskHandler struct {
	Tasks *services.TaskService
}

// taskRequest is the body of the task writes. The nursery and product ids may also be given
// in the query string, which wins over the body.
type taskRequest struct {
	Date             types.Date   `json:"date"`
	Description      string       `json:"description"`
	NurseryID        types.FlexID `json:"nurseryId"`
	ProductID        types.FlexID `json:"productId"`
	ControlProductID types.FlexID `json:"controlProductId"`
}

func (r *taskRequest) task() *models.Task {
	return &models.Task{Date: r.Date, Description: r.Description}
}

// nurseryID resolves the owning nursery from the query or the body
func (r *taskRequest) nurseryID(c *fiber.Ctx) (uint64, error) {
	q, err := queryID(c, "nurseryId")
	if err != nil {
		return 0, err
	}
	id := q.Or(r.NurseryID)
	if !id.Valid {
		return 0, types.NewValidationError("nurseryId is required")
	}
	return id.ID, nil
}

// productID resolves the optional product from the query or the body
func (r *taskRequest) productID(c *fiber.Ctx) (*uint64, error) {
	q, err := queryID(c, "productId")
	if err != nil {
		return nil, err
	}
	return q.Or(r.ProductID, r.ControlProductID).Ptr(), nil
}

// RegisterTask handles POST /api/tasks?nurseryId=
// @Summary Register a task
// @Description Record a task in a nursery, without a control product
// @Tags Tasks
// @Accept json
// @Produce json
// @Param nurseryId query int true "Nursery ID"
// @Param body body models.Task true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks [post]
func (h *TaskHandler) RegisterTask(c *fiber.Ctx) error {
	var body taskRequest
	if err := decode(c, &body); err != nil {
		return fail(c, err, "registerTask")
	}
	nurseryID, err := body.nurseryID(c)
	if err != nil {
		return fail(c, err, "registerTask")
	}

	task, err := h.Tasks.RegisterTask(c.UserContext(), body.task(), nurseryID)
	if err != nil {
		return fail(c, err, "registerTask")
	}
	return utils.CreatedResponse(c, task)
}

// RegisterTaskWithProduct handles POST /api/tasks/with-product?nurseryId=&productId=
// @Summary Register a task with a control product
// @Description Record a task in a nursery. Without a productId the task has no product.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param nurseryId query int true "Nursery ID"
// @Param productId query int false "Control product ID"
// @Param body body models.Task true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/with-product [post]
func (h *TaskHandler) RegisterTaskWithProduct(c *fiber.Ctx) error {
	var body taskRequest
	if err := decode(c, &body); err != nil {
		return fail(c, err, "registerTaskWithProduct")
	}
	nurseryID, err := body.nurseryID(c)
	if err != nil {
		return fail(c, err, "registerTaskWithProduct")
	}
	productID, err := body.productID(c)
	if err != nil {
		return fail(c, err, "registerTaskWithProduct")
	}

	task, err := h.Tasks.RegisterTaskWithProduct(c.UserContext(), body.task(), nurseryID, productID)
	if err != nil {
		return fail(c, err, "registerTaskWithProduct")
	}
	return utils.CreatedResponse(c, task)
}

// GetAllTasks handles GET /api/tasks
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Success 200 {array} models.Task
// @Router /tasks [get]
func (h *TaskHandler) GetAllTasks(c *fiber.Ctx) error {
	tasks, err := h.Tasks.GetAllTasks(c.UserContext())
	if err != nil {
		return fail(c, err, "getAllTasks")
	}
	return utils.SuccessResponse(c, tasks, fiber.StatusOK)
}

// GetTask handles GET /api/tasks/:id
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "getTask")
	}

	task, err := h.Tasks.GetTaskByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getTask")
	}
	if task == nil {
		return utils.NotFoundResponse(c, "Task not found")
	}
	return utils.SuccessResponse(c, task, fiber.StatusOK)
}

// GetTasksByNursery handles GET /api/tasks/nursery/:nurseryId
// @Summary List the tasks of a nursery
// @Tags Tasks
// @Produce json
// @Param nurseryId path int true "Nursery ID"
// @Success 200 {array} models.Task
// @Router /tasks/nursery/{nurseryId} [get]
func (h *TaskHandler) GetTasksByNursery(c *fiber.Ctx) error {
	id, err := paramID(c, "nurseryId")
	if err != nil {
		return fail(c, err, "getTasksByNursery")
	}

	tasks, err := h.Tasks.GetTasksByNursery(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getTasksByNursery")
	}
	return utils.SuccessResponse(c, tasks, fiber.StatusOK)
}

// GetTasksByDateRange handles GET /api/tasks/range?start=&end=
// @Summary List tasks in a date range
// @Description Both bounds are inclusive
// @Tags Tasks
// @Produce json
// @Param start query string true "First date, YYYY-MM-DD"
// @Param end query string true "Last date, YYYY-MM-DD"
// @Success 200 {array} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tasks/range [get]
func (h *TaskHandler) GetTasksByDateRange(c *fiber.Ctx) error {
	start, err := dateValue("start", c.Query("start"))
	if err != nil {
		return fail(c, err, "getTasksByDateRange")
	}
	end, err := dateValue("end", c.Query("end"))
	if err != nil {
		return fail(c, err, "getTasksByDateRange")
	}

	tasks, err := h.Tasks.GetTasksByDateRange(c.UserContext(), start, end)
	if err != nil {
		return fail(c, err, "getTasksByDateRange")
	}
	return utils.SuccessResponse(c, tasks, fiber.StatusOK)
}

// GetTasksByDate handles GET /api/tasks/date/:date
// @Summary List tasks on a date
// @Tags Tasks
// @Produce json
// @Param date path string true "Date, YYYY-MM-DD"
// @Success 200 {array} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tasks/date/{date} [get]
func (h *TaskHandler) GetTasksByDate(c *fiber.Ctx) error {
	date, err := dateValue("date", c.Params("date"))
	if err != nil {
		return fail(c, err, "getTasksByDate")
	}

	tasks, err := h.Tasks.GetTasksByDate(c.UserContext(), date)
	if err != nil {
		return fail(c, err, "getTasksByDate")
	}
	return utils.SuccessResponse(c, tasks, fiber.StatusOK)
}

// GetTasksByProduct handles GET /api/tasks/product/:productId
// @Summary List the tasks that used a control product
// @Tags Tasks
// @Produce json
// @Param productId path int true "Control product ID"
// @Success 200 {array} models.Task
// @Router /tasks/product/{productId} [get]
func (h *TaskHandler) GetTasksByProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "productId")
	if err != nil {
		return fail(c, err, "getTasksByProduct")
	}

	tasks, err := h.Tasks.GetTasksByProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getTasksByProduct")
	}
	return utils.SuccessResponse(c, tasks, fiber.StatusOK)
}

// UpdateTask handles PUT /api/tasks/:id
// @Summary Update a task
// @Description Replace the date and description of a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body models.Task true "Task fields"
// @Success 200 {object} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "updateTask")
	}

	var body taskRequest
	if err := decode(c, &body); err != nil {
		return fail(c, err, "updateTask")
	}

	task, err := h.Tasks.UpdateTask(c.UserContext(), id, body.task())
	if err != nil {
		return fail(c, err, "updateTask")
	}
	return utils.SuccessResponse(c, task, fiber.StatusOK)
}

// DeleteTask handles DELETE /api/tasks/:id
// @Summary Delete a task
// @Tags Tasks
// @Param id path int true "Task ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "deleteTask")
	}

	if err := h.Tasks.DeleteTask(c.UserContext(), id); err != nil {
		return fail(c, err, "deleteTask")
	}
	return utils.NoContentResponse(c)
}

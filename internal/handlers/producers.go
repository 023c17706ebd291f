// producers.go
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

// ProducerHandler handles producer routes and the farms they own
type ProducerHandler struct {
	Producers *services.ProducerService
}

// producerWithFarms is the body of POST /producers/with-farms. A single farm object is
// accepted in place of a list.
type producerWithFarms struct {
	models.Producer
	Farms types.FlexList[models.Farm] `json:"farms"`
}

// RegisterProducer handles POST /api/producers
// @Summary Register a producer
// @Description Register a new producer. The document must be unique.
// @Tags Producers
// @Accept json
// @Produce json
// @Param body body models.Producer true "Producer"
// @Success 201 {object} models.Producer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /producers [post]
func (h *ProducerHandler) RegisterProducer(c *fiber.Ctx) error {
	var body models.Producer
	if err := decode(c, &body); err != nil {
		return fail(c, err, "registerProducer")
	}

	producer, err := h.Producers.RegisterProducer(c.UserContext(), &body)
	if err != nil {
		return fail(c, err, "registerProducer")
	}
	return utils.CreatedResponse(c, producer)
}

// RegisterProducerWithFarms handles POST /api/producers/with-farms
// @Summary Register a producer with farms
// @Description Register a producer and all of its farms in one transaction
// @Tags Producers
// @Accept json
// @Produce json
// @Param body body models.Producer true "Producer with farms"
// @Success 201 {object} models.Producer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /producers/with-farms [post]
func (h *ProducerHandler) RegisterProducerWithFarms(c *fiber.Ctx) error {
	var body producerWithFarms
	if err := decode(c, &body); err != nil {
		return fail(c, err, "registerProducerWithFarms")
	}

	producer, err := h.Producers.RegisterProducerWithFarms(c.UserContext(), &body.Producer, body.Farms.Pointers())
	if err != nil {
		return fail(c, err, "registerProducerWithFarms")
	}
	return utils.CreatedResponse(c, producer)
}

// GetAllProducers handles GET /api/producers
// @Summary List producers
// @Tags Producers
// @Produce json
// @Success 200 {array} models.Producer
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /producers [get]
func (h *ProducerHandler) GetAllProducers(c *fiber.Ctx) error {
	producers, err := h.Producers.GetAllProducers(c.UserContext())
	if err != nil {
		return fail(c, err, "getAllProducers")
	}
	return utils.SuccessResponse(c, producers, fiber.StatusOK)
}

// GetProducer handles GET /api/producers/:id
// @Summary Get a producer with its farms
// @Tags Producers
// @Produce json
// @Param id path int true "Producer ID"
// @Success 200 {object} models.Producer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /producers/{id} [get]
func (h *ProducerHandler) GetProducer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "getProducer")
	}

	producer, err := h.Producers.GetProducerWithFarms(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getProducer")
	}
	if producer == nil {
		return utils.NotFoundResponse(c, "Producer not found")
	}
	return utils.SuccessResponse(c, producer, fiber.StatusOK)
}

// FindByDocument handles GET /api/producers/document/:document
// @Summary Find a producer by document
// @Tags Producers
// @Produce json
// @Param document path string true "Identity document"
// @Success 200 {object} models.Producer
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /producers/document/{document} [get]
func (h *ProducerHandler) FindByDocument(c *fiber.Ctx) error {
	document := c.Params("document")

	producer, err := h.Producers.FindByDocument(c.UserContext(), document)
	if err != nil {
		return fail(c, err, "findByDocument")
	}
	if producer == nil {
		return utils.NotFoundResponse(c, "Producer with document '"+document+"' not found")
	}
	return utils.SuccessResponse(c, producer, fiber.StatusOK)
}

// UpdateProducer handles PUT /api/producers/:id
// @Summary Update a producer
// @Description Replace the names, phone and email of a producer. The document never changes.
// @Tags Producers
// @Accept json
// @Produce json
// @Param id path int true "Producer ID"
// @Param body body models.Producer true "Producer fields"
// @Success 200 {object} models.Producer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /producers/{id} [put]
func (h *ProducerHandler) UpdateProducer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "updateProducer")
	}

	var body models.Producer
	if err := decode(c, &body); err != nil {
		return fail(c, err, "updateProducer")
	}

	producer, err := h.Producers.UpdateProducer(c.UserContext(), id, &body)
	if err != nil {
		return fail(c, err, "updateProducer")
	}
	return utils.SuccessResponse(c, producer, fiber.StatusOK)
}

// DeleteProducer handles DELETE /api/producers/:id
// @Summary Delete a producer
// @Description Delete a producer with its farms, nurseries and tasks
// @Tags Producers
// @Param id path int true "Producer ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /producers/{id} [delete]
func (h *ProducerHandler) DeleteProducer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "deleteProducer")
	}

	if err := h.Producers.DeleteProducer(c.UserContext(), id); err != nil {
		return fail(c, err, "deleteProducer")
	}
	return utils.NoContentResponse(c)
}

// GetFarms handles GET /api/producers/:id/farms
// @Summary List the farms of a producer
// @Tags Producers
// @Produce json
// @Param id path int true "Producer ID"
// @Success 200 {array} models.Farm
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /producers/{id}/farms [get]
func (h *ProducerHandler) GetFarms(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "getFarmsByProducer")
	}

	farms, err := h.Producers.GetFarmsByProducer(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getFarmsByProducer")
	}
	return utils.SuccessResponse(c, farms, fiber.StatusOK)
}

// AddFarm handles POST /api/producers/:id/farms
// @Summary Add a farm to a producer
// @Tags Producers
// @Accept json
// @Produce json
// @Param id path int true "Producer ID"
// @Param body body models.Farm true "Farm"
// @Success 201 {object} models.Farm
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /producers/{id}/farms [post]
func (h *ProducerHandler) AddFarm(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "addFarmToProducer")
	}

	var body models.Farm
	if err := decode(c, &body); err != nil {
		return fail(c, err, "addFarmToProducer")
	}

	farm, err := h.Producers.AddFarmToProducer(c.UserContext(), id, &body)
	if err != nil {
		return fail(c, err, "addFarmToProducer")
	}
	return utils.CreatedResponse(c, farm)
}

// RemoveFarm handles DELETE /api/producers/:id/farms/:farmId
// @Summary Remove a farm from a producer
// @Description Delete a farm of the producer with its nurseries and tasks
// @Tags Producers
// @Param id path int true "Producer ID"
// @Param farmId path int true "Farm ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /producers/{id}/farms/{farmId} [delete]
func (h *ProducerHandler) RemoveFarm(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "removeFarmFromProducer")
	}
	farmID, err := paramID(c, "farmId")
	if err != nil {
		return fail(c, err, "removeFarmFromProducer")
	}

	if err := h.Producers.RemoveFarmFromProducer(c.UserContext(), id, farmID); err != nil {
		return fail(c, err, "removeFarmFromProducer")
	}
	return utils.NoContentResponse(c)
}

// params.go
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
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/viverodb/internal/types"
	"github.com/localnerve/viverodb/internal/utils"
)

// paramID reads a positive numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, types.NewValidationError("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// queryID reads an optional id from the query string. Numbers and numeric strings are accepted.
func queryID(c *fiber.Ctx, name string) (types.FlexID, error) {
	id, err := types.ParseFlexID(c.Query(name))
	if err != nil {
		return types.FlexID{}, types.NewValidationError("%s must be a positive integer, got %q", name, c.Query(name))
	}
	return id, nil
}

// dateValue parses a required YYYY-MM-DD value
func dateValue(name, raw string) (types.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return types.Date{}, types.NewValidationError("%s is required", name)
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return types.Date{}, types.NewValidationError("%s: %v", name, err)
	}
	return d, nil
}

// decode parses the JSON request body into v
func decode(c *fiber.Ctx, v interface{}) error {
	if len(c.Body()) == 0 {
		return types.NewValidationError("request body is required")
	}
	if err := c.BodyParser(v); err != nil {
		return types.NewValidationError("invalid request body: %v", err)
	}
	return nil
}

// fail renders err in the error envelope. A CustomError keeps its status and type, anything
// else is reported as a 500 typed by op.
func fail(c *fiber.Ctx, err error, op string) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
}

// ErrorHandler renders errors that escape the handlers
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}

	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		if code == fiber.StatusNotFound {
			errorType = types.TypeNotFound
		}
	}

	return utils.ErrorResponse(c, message, code, errorType)
}

// NotFound answers any route that matched nothing
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}

// Welcome handles GET /
func Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":      "viverodb",
		"message":   "Agricultural nursery record-keeping service",
		"api":       "/api",
		"docs":      "/swagger/index.html",
		"health":    "/health",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

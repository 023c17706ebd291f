package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/services"
	"github.com/localnerve/viverodb/internal/types"
	"github.com/localnerve/viverodb/internal/utils"
)

// ProductHandler handles the control-product catalog routes
type ProductHandler struct {
	Products *services.ProductService
}

// RegisterProduct handles POST /api/products
// @Summary Register a control product
// @Description Register a fungicide, pest control product or fertilizer. Exactly one payload must be given and it must match the kind.
// @Tags Products
// @Accept json
// @Produce json
// @Param body body models.ControlProduct true "Control product"
// @Success 201 {object} models.ControlProduct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *ProductHandler) RegisterProduct(c *fiber.Ctx) error {
	var body models.ControlProduct
	if err := decode(c, &body); err != nil {
		return fail(c, err, "registerProduct")
	}

	product, err := h.Products.RegisterProduct(c.UserContext(), &body)
	if err != nil {
		return fail(c, err, "registerProduct")
	}
	return utils.CreatedResponse(c, product)
}

// GetProducts handles GET /api/products?kind=
// @Summary List control products
// @Description Without kind only the shared fields are listed; with kind the payload is included
// @Tags Products
// @Produce json
// @Param kind query string false "fungicide, pest or fertilizer"
// @Success 200 {array} models.ControlProduct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products [get]
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	var (
		products []*models.ControlProduct
		err      error
	)
	if kind := c.Query("kind"); kind != "" {
		products, err = h.Products.GetProductsByKind(c.UserContext(), kind)
	} else {
		products, err = h.Products.GetAllProducts(c.UserContext())
	}
	if err != nil {
		return fail(c, err, "getProducts")
	}
	return utils.SuccessResponse(c, products, fiber.StatusOK)
}

// GetFungicides handles GET /api/products/fungicides?fungus=
// @Summary List fungicides by target fungus
// @Tags Products
// @Produce json
// @Param fungus query string true "Fungus name"
// @Success 200 {array} models.ControlProduct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products/fungicides [get]
func (h *ProductHandler) GetFungicides(c *fiber.Ctx) error {
	fungus := c.Query("fungus")
	if fungus == "" {
		return fail(c, types.NewValidationError("fungus is required"), "getFungicides")
	}

	products, err := h.Products.GetFungicidesByFungusName(c.UserContext(), fungus)
	if err != nil {
		return fail(c, err, "getFungicides")
	}
	return utils.SuccessResponse(c, products, fiber.StatusOK)
}

// FindByICARegistry handles GET /api/products/ica/:code
// @Summary Find a control product by ICA registry code
// @Tags Products
// @Produce json
// @Param code path string true "ICA registry code"
// @Success 200 {object} models.ControlProduct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/ica/{code} [get]
func (h *ProductHandler) FindByICARegistry(c *fiber.Ctx) error {
	code := c.Params("code")

	product, err := h.Products.FindByICARegistry(c.UserContext(), code)
	if err != nil {
		return fail(c, err, "findByICARegistry")
	}
	if product == nil {
		return utils.NotFoundResponse(c, fmt.Sprintf("Product with ICA registry '%s' not found", code))
	}
	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// GetProduct handles GET /api/products/:id
// @Summary Get a control product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.ControlProduct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "getProduct")
	}

	product, err := h.Products.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "getProduct")
	}
	if product == nil {
		return utils.NotFoundResponse(c, "Product not found")
	}
	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// DeleteProduct handles DELETE /api/products/:id
// @Summary Delete a control product
// @Description A product still used by a task is not deleted
// @Tags Products
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err, "deleteProduct")
	}

	if err := h.Products.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, err, "deleteProduct")
	}
	return utils.NoContentResponse(c)
}

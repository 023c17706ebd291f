package services

import (
	"context"
	"log/slog"

	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/store"
	"github.com/localnerve/viverodb/internal/types"
)

// ProductService maintains the control-product catalog
type ProductService struct {
	base
	store store.Store
}

// NewProductService creates a ProductService
func NewProductService(s store.Store, log *slog.Logger, m *metrics.Metrics) *ProductService {
	return &ProductService{base: newBase(log, m, "products"), store: s}
}

// RegisterProduct validates and persists a product with its payload
func (s *ProductService) RegisterProduct(ctx context.Context, product *models.ControlProduct) (*models.ControlProduct, error) {
	if product == nil {
		return nil, s.reject("RegisterProduct", types.NewValidationError("product: body is required"))
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		product.ID = 0
		if err := product.Validate(); err != nil {
			return err
		}

		taken, err := tx.ExistsProductByICARegistry(ctx, product.ICARegistry)
		if err != nil {
			return err
		}
		if taken {
			return types.NewDuplicateKeyError("product with ICA registry %s already exists", product.ICARegistry)
		}

		return tx.SaveProduct(ctx, product)
	})
	if err != nil {
		product.ID = 0
		return nil, s.reject("RegisterProduct", err)
	}

	s.created("product", product.ID, "kind", product.Kind, "icaRegistry", product.ICARegistry)
	return product, nil
}

// GetProduct returns the product with its payload, or nil when there is none
func (s *ProductService) GetProduct(ctx context.Context, id uint64) (*models.ControlProduct, error) {
	return optional(s.store.FindProduct(ctx, id))
}

// FindByICARegistry returns the product registered under code, or nil
func (s *ProductService) FindByICARegistry(ctx context.Context, code string) (*models.ControlProduct, error) {
	return optional(s.store.FindProductByICARegistry(ctx, code))
}

// GetAllProducts lists every product with its shared fields only
func (s *ProductService) GetAllProducts(ctx context.Context) ([]*models.ControlProduct, error) {
	return s.store.ListProducts(ctx)
}

// GetProductsByKind lists the products of kind with their payload
func (s *ProductService) GetProductsByKind(ctx context.Context, kind string) ([]*models.ControlProduct, error) {
	k, ok := models.ParseProductKind(kind)
	if !ok {
		return nil, s.reject("GetProductsByKind",
			types.NewValidationError("kind must be one of: fungicide pest fertilizer"))
	}
	return s.store.ListProductsByKind(ctx, k)
}

// GetFungicidesByFungusName lists the fungicides that treat fungusName
func (s *ProductService) GetFungicidesByFungusName(ctx context.Context, fungusName string) ([]*models.ControlProduct, error) {
	return s.store.ListFungicidesByFungusName(ctx, fungusName)
}

// DeleteProduct deletes product id. A product still referenced by a task is not deleted.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint64) error {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.FindProduct(ctx, id); err != nil {
			return err
		}
		uses, err := tx.CountTasksByProduct(ctx, id)
		if err != nil {
			return err
		}
		if uses > 0 {
			return types.NewInUseError("product %d is used by %d tasks", id, uses)
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return s.reject("DeleteProduct", err)
	}

	s.deleted("product", id)
	return nil
}

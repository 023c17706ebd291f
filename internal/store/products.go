package store

import (
	"context"

	"github.com/localnerve/viverodb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// withPayload loads whichever detail row the product has
func withPayload(db *gorm.DB) *gorm.DB {
	return db.Preload("Fungicide").Preload("Pest").Preload("Fertilizer")
}

// SaveProduct writes the base row, then the detail row keyed by the product id.
// Both writes share one transaction.
func (s *GormStore) SaveProduct(ctx context.Context, p *models.ControlProduct) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		isNew := p.ID == 0
		if err := save(tx.Omit(clause.Associations), p, p.ID, "product with ICA registry", p.ICARegistry); err != nil {
			return err
		}
		payload := p.Payload()
		if payload == nil {
			return nil
		}
		if isNew {
			return translate(tx.Create(payload).Error, "product payload", p.ID)
		}
		return translate(tx.Save(payload).Error, "product payload", p.ID)
	})
}

// FindProduct implements Store
func (s *GormStore) FindProduct(ctx context.Context, id uint64) (*models.ControlProduct, error) {
	return findOne[models.ControlProduct](
		s.owner(ctx, "product.by_id").Scopes(withPayload).Where("id = ?", id),
		"product", id,
	)
}

// FindProductByICARegistry implements Store
func (s *GormStore) FindProductByICARegistry(ctx context.Context, code string) (*models.ControlProduct, error) {
	return findOne[models.ControlProduct](
		s.query(ctx, "product.by_ica").Scopes(withPayload).Where("ica_registry = ?", code),
		"product with ICA registry", code,
	)
}

// ExistsProductByICARegistry implements Store
func (s *GormStore) ExistsProductByICARegistry(ctx context.Context, code string) (bool, error) {
	return exists[models.ControlProduct](s.query(ctx, "product.exists_ica"), "ica_registry = ?", code)
}

// ListProducts returns the shared fields of every product
func (s *GormStore) ListProducts(ctx context.Context) ([]*models.ControlProduct, error) {
	var products []*models.ControlProduct
	if err := s.query(ctx, "product.all").Scopes(byID("control_products")).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductsByKind returns the products of one kind with their payload
func (s *GormStore) ListProductsByKind(ctx context.Context, kind models.ProductKind) ([]*models.ControlProduct, error) {
	var products []*models.ControlProduct
	err := s.query(ctx, "product.by_kind").
		Scopes(withPayload, byID("control_products")).
		Where("kind = ?", kind).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListFungicidesByFungusName implements Store
func (s *GormStore) ListFungicidesByFungusName(ctx context.Context, fungusName string) ([]*models.ControlProduct, error) {
	var products []*models.ControlProduct
	err := s.query(ctx, "product.fungicides_by_fungus").
		Joins("JOIN fungicide_details ON fungicide_details.product_id = control_products.id").
		Where("fungicide_details.fungus_name = ?", fungusName).
		Preload("Fungicide").
		Scopes(byID("control_products")).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// DeleteProduct removes the product and its detail row
func (s *GormStore) DeleteProduct(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, detail := range []any{&models.FungicideDetail{}, &models.PestDetail{}, &models.FertilizerDetail{}} {
			if err := tx.Where("product_id = ?", id).Delete(detail).Error; err != nil {
				return err
			}
		}
		return deleteByID[models.ControlProduct](tx, "product", id)
	})
}

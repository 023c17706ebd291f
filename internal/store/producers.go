package store

import (
	"context"

	"github.com/localnerve/viverodb/internal/models"
	"gorm.io/gorm"
)

// SaveProducer implements Store
func (s *GormStore) SaveProducer(ctx context.Context, p *models.Producer) error {
	if err := save(s.write(ctx), p, p.ID, "producer with document", p.Document); err != nil {
		return err
	}
	for _, f := range p.Farms {
		f.ProducerID = p.ID
	}
	return nil
}

// FindProducer implements Store
func (s *GormStore) FindProducer(ctx context.Context, id uint64) (*models.Producer, error) {
	return findOne[models.Producer](s.owner(ctx, "producer.by_id").Where("id = ?", id), "producer", id)
}

// FindProducerWithFarms loads the producer and its farms in id order
func (s *GormStore) FindProducerWithFarms(ctx context.Context, id uint64) (*models.Producer, error) {
	p, err := findOne[models.Producer](
		s.owner(ctx, "producer.with_farms").Preload("Farms", byID("farms")).Where("id = ?", id),
		"producer", id,
	)
	if err != nil {
		return nil, err
	}
	p.Link()
	return p, nil
}

// FindProducerByDocument implements Store
func (s *GormStore) FindProducerByDocument(ctx context.Context, document string) (*models.Producer, error) {
	return findOne[models.Producer](
		s.query(ctx, "producer.by_document").Where("document = ?", document),
		"producer with document", document,
	)
}

// ExistsProducer implements Store
func (s *GormStore) ExistsProducer(ctx context.Context, id uint64) (bool, error) {
	return exists[models.Producer](s.query(ctx, "producer.exists"), "id = ?", id)
}

// ExistsProducerByDocument implements Store
func (s *GormStore) ExistsProducerByDocument(ctx context.Context, document string) (bool, error) {
	return exists[models.Producer](s.query(ctx, "producer.exists_document"), "document = ?", document)
}

// ListProducers implements Store
func (s *GormStore) ListProducers(ctx context.Context) ([]*models.Producer, error) {
	var producers []*models.Producer
	if err := s.query(ctx, "producer.all").Scopes(byID("producers")).Find(&producers).Error; err != nil {
		return nil, err
	}
	return producers, nil
}

// CountProducers implements Store
func (s *GormStore) CountProducers(ctx context.Context) (int64, error) {
	var count int64
	err := s.query(ctx, "producer.count").Model(&models.Producer{}).Count(&count).Error
	return count, err
}

// DeleteProducer removes the producer with its farms, their nurseries and their tasks
func (s *GormStore) DeleteProducer(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		farms := tx.Model(&models.Farm{}).Select("id").Where("producer_id = ?", id)
		if err := deleteNurseries(tx, "farm_id IN (?)", farms); err != nil {
			return err
		}
		if err := tx.Where("producer_id = ?", id).Delete(&models.Farm{}).Error; err != nil {
			return err
		}
		return deleteByID[models.Producer](tx, "producer", id)
	})
}

// deleteNurseries removes the nurseries matching the condition along with their tasks.
// The condition filters nurseries by their own columns; MySQL rejects a delete that selects
// from its target table.
func deleteNurseries(tx *gorm.DB, query string, args ...any) error {
	ids := tx.Model(&models.Nursery{}).Select("id").Where(query, args...)
	if err := tx.Where("nursery_id IN (?)", ids).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	return tx.Where(query, args...).Delete(&models.Nursery{}).Error
}

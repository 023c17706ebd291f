package store

import (
	"context"

	"github.com/localnerve/viverodb/internal/models"
	"gorm.io/gorm"
)

// SaveFarm implements Store
func (s *GormStore) SaveFarm(ctx context.Context, f *models.Farm) error {
	if err := save(s.write(ctx), f, f.ID, "farm with cadastral number", f.CadastralNumber); err != nil {
		return err
	}
	for _, n := range f.Nurseries {
		n.FarmID = f.ID
	}
	return nil
}

// FindFarm implements Store
func (s *GormStore) FindFarm(ctx context.Context, id uint64) (*models.Farm, error) {
	return findOne[models.Farm](s.owner(ctx, "farm.by_id").Where("id = ?", id), "farm", id)
}

// FindFarmWithNurseries loads the farm with its nurseries
func (s *GormStore) FindFarmWithNurseries(ctx context.Context, id uint64) (*models.Farm, error) {
	f, err := findOne[models.Farm](
		s.owner(ctx, "farm.with_nurseries").Preload("Nurseries", byID("nurseries")).Where("id = ?", id),
		"farm", id,
	)
	if err != nil {
		return nil, err
	}
	f.Link()
	return f, nil
}

// FindFarmByCadastralNumber loads the farm registered under number with its nurseries
func (s *GormStore) FindFarmByCadastralNumber(ctx context.Context, number string) (*models.Farm, error) {
	f, err := findOne[models.Farm](
		s.query(ctx, "farm.by_cadastral").Preload("Nurseries", byID("nurseries")).Where("cadastral_number = ?", number),
		"farm with cadastral number", number,
	)
	if err != nil {
		return nil, err
	}
	f.Link()
	return f, nil
}

// ExistsFarmByCadastralNumber implements Store
func (s *GormStore) ExistsFarmByCadastralNumber(ctx context.Context, number string) (bool, error) {
	return exists[models.Farm](s.query(ctx, "farm.exists_cadastral"), "cadastral_number = ?", number)
}

// ExistsFarm implements Store
func (s *GormStore) ExistsFarm(ctx context.Context, id uint64) (bool, error) {
	return exists[models.Farm](s.query(ctx, "farm.exists"), "id = ?", id)
}

// ListFarmsByProducer implements Store
func (s *GormStore) ListFarmsByProducer(ctx context.Context, producerID uint64) ([]*models.Farm, error) {
	var farms []*models.Farm
	err := s.query(ctx, "farm.by_producer").
		Where("producer_id = ?", producerID).
		Scopes(byID("farms")).
		Find(&farms).Error
	if err != nil {
		return nil, err
	}
	return farms, nil
}

// DeleteFarm removes the farm with its nurseries and their tasks
func (s *GormStore) DeleteFarm(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteNurseries(tx, "farm_id = ?", id); err != nil {
			return err
		}
		return deleteByID[models.Farm](tx, "farm", id)
	})
}

// SaveNursery implements Store
func (s *GormStore) SaveNursery(ctx context.Context, n *models.Nursery) error {
	if err := save(s.write(ctx), n, n.ID, "nursery", n.Code); err != nil {
		return err
	}
	for _, t := range n.Tasks {
		t.NurseryID = n.ID
	}
	return nil
}

// FindNursery implements Store
func (s *GormStore) FindNursery(ctx context.Context, id uint64) (*models.Nursery, error) {
	return findOne[models.Nursery](s.owner(ctx, "nursery.by_id").Where("id = ?", id), "nursery", id)
}

// FindNurseryWithTasks loads the nursery with its tasks by date and their full products
func (s *GormStore) FindNurseryWithTasks(ctx context.Context, id uint64) (*models.Nursery, error) {
	n, err := findOne[models.Nursery](
		s.query(ctx, "nursery.with_tasks").
			Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.task_date, tasks.id") }).
			Preload("Tasks.ControlProduct").
			Preload("Tasks.ControlProduct.Fungicide").
			Preload("Tasks.ControlProduct.Pest").
			Preload("Tasks.ControlProduct.Fertilizer").
			Where("id = ?", id),
		"nursery", id,
	)
	if err != nil {
		return nil, err
	}
	n.Link()
	return n, nil
}

// ExistsNursery implements Store
func (s *GormStore) ExistsNursery(ctx context.Context, id uint64) (bool, error) {
	return exists[models.Nursery](s.query(ctx, "nursery.exists"), "id = ?", id)
}

// ListNurseriesByFarm implements Store
func (s *GormStore) ListNurseriesByFarm(ctx context.Context, farmID uint64) ([]*models.Nursery, error) {
	var nurseries []*models.Nursery
	err := s.query(ctx, "nursery.by_farm").
		Where("farm_id = ?", farmID).
		Scopes(byID("nurseries")).
		Find(&nurseries).Error
	if err != nil {
		return nil, err
	}
	return nurseries, nil
}

// ListNurseriesByCropType implements Store
func (s *GormStore) ListNurseriesByCropType(ctx context.Context, cropType string) ([]*models.Nursery, error) {
	var nurseries []*models.Nursery
	err := s.query(ctx, "nursery.by_crop_type").
		Where("crop_type = ?", cropType).
		Scopes(byID("nurseries")).
		Find(&nurseries).Error
	if err != nil {
		return nil, err
	}
	return nurseries, nil
}

// DeleteNursery removes the nursery and its tasks
func (s *GormStore) DeleteNursery(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("nursery_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return deleteByID[models.Nursery](tx, "nursery", id)
	})
}

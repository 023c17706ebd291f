package store

import (
	"context"

	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/types"
	"gorm.io/gorm"
)

// tasksInOrder sorts by date, then insertion order, and loads the shared product fields
func tasksInOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("ControlProduct").Order("tasks.task_date, tasks.id")
}

// SaveTask implements Store
func (s *GormStore) SaveTask(ctx context.Context, t *models.Task) error {
	return save(s.write(ctx), t, t.ID, "task", t.ID)
}

// FindTask loads the task with the full referenced product
func (s *GormStore) FindTask(ctx context.Context, id uint64) (*models.Task, error) {
	return findOne[models.Task](
		s.query(ctx, "task.by_id").
			Preload("ControlProduct").
			Preload("ControlProduct.Fungicide").
			Preload("ControlProduct.Pest").
			Preload("ControlProduct.Fertilizer").
			Where("id = ?", id),
		"task", id,
	)
}

func (s *GormStore) listTasks(ctx context.Context, name string, query string, args ...any) ([]*models.Task, error) {
	q := s.query(ctx, name).Scopes(tasksInOrder)
	if query != "" {
		q = q.Where(query, args...)
	}
	var tasks []*models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListTasks implements Store
func (s *GormStore) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return s.listTasks(ctx, "task.all", "")
}

// ListTasksByNursery implements Store
func (s *GormStore) ListTasksByNursery(ctx context.Context, nurseryID uint64) ([]*models.Task, error) {
	return s.listTasks(ctx, "task.by_nursery", "nursery_id = ?", nurseryID)
}

// ListTasksByDate implements Store
func (s *GormStore) ListTasksByDate(ctx context.Context, date types.Date) ([]*models.Task, error) {
	return s.listTasks(ctx, "task.by_date", "task_date = ?", date)
}

// ListTasksByDateRange returns tasks dated from start to end, both inclusive
func (s *GormStore) ListTasksByDateRange(ctx context.Context, start, end types.Date) ([]*models.Task, error) {
	return s.listTasks(ctx, "task.by_date_range", "task_date >= ? AND task_date <= ?", start, end)
}

// ListTasksByProduct implements Store
func (s *GormStore) ListTasksByProduct(ctx context.Context, productID uint64) ([]*models.Task, error) {
	return s.listTasks(ctx, "task.by_product", "control_product_id = ?", productID)
}

// CountTasksByProduct implements Store
func (s *GormStore) CountTasksByProduct(ctx context.Context, productID uint64) (int64, error) {
	var count int64
	err := s.query(ctx, "task.count_by_product").
		Model(&models.Task{}).
		Where("control_product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// DeleteTask implements Store
func (s *GormStore) DeleteTask(ctx context.Context, id uint64) error {
	return deleteByID[models.Task](s.db.WithContext(ctx), "task", id)
}

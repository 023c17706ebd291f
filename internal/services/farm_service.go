package services

import (
	"context"
	"log/slog"

	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/store"
	"github.com/localnerve/viverodb/internal/types"
)

// FarmService reads farms and manages the nurseries they own
type FarmService struct {
	base
	store store.Store
}

// NewFarmService creates a FarmService
func NewFarmService(s store.Store, log *slog.Logger, m *metrics.Metrics) *FarmService {
	return &FarmService{base: newBase(log, m, "farms"), store: s}
}

// GetFarm returns the farm with its nurseries, or nil when there is none
func (s *FarmService) GetFarm(ctx context.Context, id uint64) (*models.Farm, error) {
	return optional(s.store.FindFarmWithNurseries(ctx, id))
}

// FindByCadastralNumber returns the farm registered under number, or nil
func (s *FarmService) FindByCadastralNumber(ctx context.Context, number string) (*models.Farm, error) {
	return optional(s.store.FindFarmByCadastralNumber(ctx, number))
}

// AddNurseryToFarm attaches a new nursery to farm farmID and returns it with its id
func (s *FarmService) AddNurseryToFarm(ctx context.Context, farmID uint64, nursery *models.Nursery) (*models.Nursery, error) {
	if nursery == nil {
		return nil, s.reject("AddNurseryToFarm", types.NewValidationError("nursery: body is required"))
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		farm, err := tx.FindFarm(ctx, farmID)
		if err != nil {
			return err
		}

		nursery.ID = 0
		nursery.Tasks = nil
		if err := nursery.Validate(); err != nil {
			return err
		}

		farm.AddNursery(nursery)
		if err := tx.SaveNursery(ctx, nursery); err != nil {
			farm.RemoveNursery(nursery)
			return err
		}
		return nil
	})
	if err != nil {
		nursery.ID = 0
		return nil, s.reject("AddNurseryToFarm", err)
	}

	s.created("nursery", nursery.ID, "farm", farmID, "cropType", nursery.CropType)
	return nursery, nil
}

// RemoveNurseryFromFarm detaches nursery nurseryID from farm farmID and deletes it with its tasks
func (s *FarmService) RemoveNurseryFromFarm(ctx context.Context, farmID, nurseryID uint64) error {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		farm, err := tx.FindFarmWithNurseries(ctx, farmID)
		if err != nil {
			return err
		}
		nursery := farm.NurseryByID(nurseryID)
		if nursery == nil {
			return types.NewNotFoundError("nursery %d not found for farm %d", nurseryID, farmID)
		}
		farm.RemoveNursery(nursery)
		return tx.DeleteNursery(ctx, nurseryID)
	})
	if err != nil {
		return s.reject("RemoveNurseryFromFarm", err)
	}

	s.deleted("nursery", nurseryID)
	return nil
}

// GetNursery returns the nursery with its tasks, or nil when there is none
func (s *FarmService) GetNursery(ctx context.Context, id uint64) (*models.Nursery, error) {
	return optional(s.store.FindNurseryWithTasks(ctx, id))
}

// GetNurseriesByFarm lists the nurseries of farm farmID
func (s *FarmService) GetNurseriesByFarm(ctx context.Context, farmID uint64) ([]*models.Nursery, error) {
	found, err := s.store.ExistsFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, s.reject("GetNurseriesByFarm", types.NewNotFoundError("farm %d not found", farmID))
	}
	return s.store.ListNurseriesByFarm(ctx, farmID)
}

// GetNurseriesByCropType lists the nurseries growing cropType
func (s *FarmService) GetNurseriesByCropType(ctx context.Context, cropType string) ([]*models.Nursery, error) {
	return s.store.ListNurseriesByCropType(ctx, cropType)
}

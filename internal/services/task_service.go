// task_service.go
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

package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/store"
	"github.com/localnerve/viverodb/internal/types"
)

// TaskService records the maintenance tasks performed in nurseries
type TaskService struct {
	base
	store store.Store
}

// NewTaskService creates a TaskService
func NewTaskService(s store.Store, log *slog.Logger, m *metrics.Metrics) *TaskService {
	return &TaskService{base: newBase(log, m, "tasks"), store: s}
}

// RegisterTask records task in nursery nurseryID, without a control product
func (s *TaskService) RegisterTask(ctx context.Context, task *models.Task, nurseryID uint64) (*models.Task, error) {
	return s.RegisterTaskWithProduct(ctx, task, nurseryID, nil)
}

// RegisterTaskWithProduct records task in nursery nurseryID. A nil productID leaves the task
// without a product; otherwise the product must exist.
func (s *TaskService) RegisterTaskWithProduct(ctx context.Context, task *models.Task, nurseryID uint64, productID *uint64) (*models.Task, error) {
	if task == nil {
		return nil, s.reject("RegisterTask", types.NewValidationError("task: body is required"))
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		nursery, err := tx.FindNursery(ctx, nurseryID)
		if err != nil {
			return err
		}

		task.ID = 0
		if err := task.Validate(); err != nil {
			return err
		}

		var product *models.ControlProduct
		if productID != nil {
			product, err = tx.FindProduct(ctx, *productID)
			if errors.Is(err, types.ErrNotFound) {
				return types.NewNotFoundError("control product %d not found", *productID)
			}
			if err != nil {
				return err
			}
		}
		task.UseProduct(product)

		nursery.AddTask(task)
		if err := tx.SaveTask(ctx, task); err != nil {
			nursery.RemoveTask(task)
			return err
		}
		return nil
	})
	if err != nil {
		task.ID = 0
		return nil, s.reject("RegisterTask", err)
	}

	if task.ControlProductID != nil {
		s.created("task", task.ID, "nursery", nurseryID, "product", *task.ControlProductID)
	} else {
		s.created("task", task.ID, "nursery", nurseryID)
	}
	return task, nil
}

// GetTasksByNursery lists the tasks of nursery nurseryID by date
func (s *TaskService) GetTasksByNursery(ctx context.Context, nurseryID uint64) ([]*models.Task, error) {
	return s.store.ListTasksByNursery(ctx, nurseryID)
}

// GetTasksByDate lists the tasks performed on date
func (s *TaskService) GetTasksByDate(ctx context.Context, date types.Date) ([]*models.Task, error) {
	if date.IsZero() {
		return nil, s.reject("GetTasksByDate", types.NewValidationError("date is required"))
	}
	return s.store.ListTasksByDate(ctx, date)
}

// GetTasksByDateRange lists the tasks dated from start through end, both inclusive
func (s *TaskService) GetTasksByDateRange(ctx context.Context, start, end types.Date) ([]*models.Task, error) {
	switch {
	case start.IsZero() || end.IsZero():
		return nil, s.reject("GetTasksByDateRange", types.NewValidationError("start and end dates are required"))
	case end.Before(start):
		return nil, s.reject("GetTasksByDateRange",
			types.NewValidationError("start date %s is after end date %s", start, end))
	}
	return s.store.ListTasksByDateRange(ctx, start, end)
}

// GetTasksByProduct lists the tasks that used product productID
func (s *TaskService) GetTasksByProduct(ctx context.Context, productID uint64) ([]*models.Task, error) {
	return s.store.ListTasksByProduct(ctx, productID)
}

// GetTaskByID returns the task, or nil when there is none
func (s *TaskService) GetTaskByID(ctx context.Context, id uint64) (*models.Task, error) {
	return optional(s.store.FindTask(ctx, id))
}

// GetAllTasks lists every task by date
func (s *TaskService) GetAllTasks(ctx context.Context) ([]*models.Task, error) {
	return s.store.ListTasks(ctx)
}

// UpdateTask overwrites the date and description of task id. Its nursery and product stay.
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, patch *models.Task) (*models.Task, error) {
	if patch == nil {
		return nil, s.reject("UpdateTask", types.NewValidationError("task: body is required"))
	}

	var updated *models.Task
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		task, err := tx.FindTask(ctx, id)
		if err != nil {
			return err
		}
		task.ApplyPatch(patch)
		if err := task.Validate(); err != nil {
			return err
		}
		if err := tx.SaveTask(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdateTask", err)
	}

	s.log.Info("Updated task", "id", id)
	return updated, nil
}

// DeleteTask deletes task id
func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return s.reject("DeleteTask", err)
	}
	s.deleted("task", id)
	return nil
}

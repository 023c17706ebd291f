// producer_service.go
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
	"log/slog"

	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/store"
	"github.com/localnerve/viverodb/internal/types"
)

// ProducerService registers producers and manages the farms they own
type ProducerService struct {
	base
	store store.Store
}

// NewProducerService creates a ProducerService
func NewProducerService(s store.Store, log *slog.Logger, m *metrics.Metrics) *ProducerService {
	return &ProducerService{base: newBase(log, m, "producers"), store: s}
}

// RegisterProducer validates and persists a new producer.
// A producer whose document is already registered is rejected with a duplicate key error.
func (s *ProducerService) RegisterProducer(ctx context.Context, producer *models.Producer) (*models.Producer, error) {
	if err := s.register(ctx, s.store, producer); err != nil {
		return nil, s.reject("RegisterProducer", err)
	}
	s.created("producer", producer.ID, "document", producer.Document)
	return producer, nil
}

func (s *ProducerService) register(ctx context.Context, st store.Store, producer *models.Producer) error {
	if producer == nil {
		return types.NewValidationError("producer: body is required")
	}
	producer.ID = 0
	producer.Farms = nil
	if err := producer.Validate(); err != nil {
		return err
	}

	taken, err := st.ExistsProducerByDocument(ctx, producer.Document)
	if err != nil {
		return err
	}
	if taken {
		return types.NewDuplicateKeyError("producer with document %s already exists", producer.Document)
	}

	return st.SaveProducer(ctx, producer)
}

// RegisterProducerWithFarms registers the producer and every farm in one transaction.
// When farms is nil the producer's own Farms are used. Any failure leaves nothing persisted.
func (s *ProducerService) RegisterProducerWithFarms(ctx context.Context, producer *models.Producer, farms []*models.Farm) (*models.Producer, error) {
	if producer != nil && farms == nil {
		farms = producer.Farms
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if err := s.register(ctx, tx, producer); err != nil {
			return err
		}

		seen := make(map[string]bool, len(farms))
		for _, farm := range farms {
			if farm == nil {
				return types.NewValidationError("farm: body is required")
			}
			if err := farm.Validate(); err != nil {
				return err
			}
			if seen[farm.CadastralNumber] {
				return types.NewDuplicateKeyError("farm with cadastral number %s is listed twice", farm.CadastralNumber)
			}
			seen[farm.CadastralNumber] = true

			if err := s.addFarm(ctx, tx, producer, farm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// rolled back, so no assigned id survives
		if producer != nil {
			producer.ID = 0
			for _, farm := range producer.Farms {
				farm.ID = 0
				farm.ProducerID = 0
			}
		}
		return nil, s.reject("RegisterProducerWithFarms", err)
	}

	s.created("producer", producer.ID, "document", producer.Document, "farms", len(producer.Farms))
	for range producer.Farms {
		s.metrics.Created("farm")
	}
	return producer, nil
}

// addFarm validates farm, checks its cadastral number is free, attaches it to producer and persists it
func (s *ProducerService) addFarm(ctx context.Context, st store.Store, producer *models.Producer, farm *models.Farm) error {
	farm.ID = 0
	farm.Nurseries = nil
	if err := farm.Validate(); err != nil {
		return err
	}

	taken, err := st.ExistsFarmByCadastralNumber(ctx, farm.CadastralNumber)
	if err != nil {
		return err
	}
	if taken {
		return types.NewDuplicateKeyError("farm with cadastral number %s already exists", farm.CadastralNumber)
	}

	producer.AddFarm(farm)
	if err := st.SaveFarm(ctx, farm); err != nil {
		producer.RemoveFarm(farm)
		return err
	}
	return nil
}

// FindByDocument returns the producer with document, or nil when there is none
func (s *ProducerService) FindByDocument(ctx context.Context, document string) (*models.Producer, error) {
	return optional(s.store.FindProducerByDocument(ctx, document))
}

// GetAllProducers returns every producer in registration order
func (s *ProducerService) GetAllProducers(ctx context.Context) ([]*models.Producer, error) {
	return s.store.ListProducers(ctx)
}

// GetProducerWithFarms returns the producer with its farms loaded, or nil when there is none
func (s *ProducerService) GetProducerWithFarms(ctx context.Context, id uint64) (*models.Producer, error) {
	return optional(s.store.FindProducerWithFarms(ctx, id))
}

// UpdateProducer overwrites the names and contact fields of producer id with those of patch.
// The document never changes.
func (s *ProducerService) UpdateProducer(ctx context.Context, id uint64, patch *models.Producer) (*models.Producer, error) {
	if patch == nil {
		return nil, s.reject("UpdateProducer", types.NewValidationError("producer: body is required"))
	}

	var updated *models.Producer
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		producer, err := tx.FindProducer(ctx, id)
		if err != nil {
			return err
		}
		producer.ApplyPatch(patch)
		if err := producer.Validate(); err != nil {
			return err
		}
		if err := tx.SaveProducer(ctx, producer); err != nil {
			return err
		}
		updated = producer
		return nil
	})
	if err != nil {
		return nil, s.reject("UpdateProducer", err)
	}

	s.log.Info("Updated producer", "id", id)
	return updated, nil
}

// AddFarmToProducer attaches a new farm to producer id. The returned farm carries the id
// assigned by the insert.
func (s *ProducerService) AddFarmToProducer(ctx context.Context, producerID uint64, farm *models.Farm) (*models.Farm, error) {
	if farm == nil {
		return nil, s.reject("AddFarmToProducer", types.NewValidationError("farm: body is required"))
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		producer, err := tx.FindProducer(ctx, producerID)
		if err != nil {
			return err
		}
		return s.addFarm(ctx, tx, producer, farm)
	})
	if err != nil {
		return nil, s.reject("AddFarmToProducer", err)
	}

	s.created("farm", farm.ID, "producer", producerID, "cadastralNumber", farm.CadastralNumber)
	return farm, nil
}

// RemoveFarmFromProducer detaches farm farmID from producer producerID and deletes it with
// everything it owns
func (s *ProducerService) RemoveFarmFromProducer(ctx context.Context, producerID, farmID uint64) error {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		producer, err := tx.FindProducerWithFarms(ctx, producerID)
		if err != nil {
			return err
		}
		farm := producer.FarmByID(farmID)
		if farm == nil {
			return types.NewNotFoundError("farm %d not found for producer %d", farmID, producerID)
		}
		producer.RemoveFarm(farm)
		return tx.DeleteFarm(ctx, farmID)
	})
	if err != nil {
		return s.reject("RemoveFarmFromProducer", err)
	}

	s.deleted("farm", farmID)
	return nil
}

// GetFarmsByProducer lists the farms of producer id
func (s *ProducerService) GetFarmsByProducer(ctx context.Context, producerID uint64) ([]*models.Farm, error) {
	found, err := s.store.ExistsProducer(ctx, producerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, s.reject("GetFarmsByProducer", types.NewNotFoundError("producer %d not found", producerID))
	}
	return s.store.ListFarmsByProducer(ctx, producerID)
}

// DeleteProducer deletes producer id with its farms, their nurseries and their tasks
func (s *ProducerService) DeleteProducer(ctx context.Context, id uint64) error {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.FindProducer(ctx, id); err != nil {
			return err
		}
		return tx.DeleteProducer(ctx, id)
	})
	if err != nil {
		return s.reject("DeleteProducer", err)
	}

	s.deleted("producer", id)
	return nil
}

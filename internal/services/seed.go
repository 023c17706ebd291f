package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/store"
)

type seedTask struct {
	models.Task
	ProductICARegistry string `json:"productIcaRegistry"`
}

type seedNursery struct {
	models.Nursery
	Tasks []seedTask `json:"tasks"`
}

type seedFarm struct {
	models.Farm
	Nurseries []seedNursery `json:"nurseries"`
}

type seedProducer struct {
	models.Producer
	Farms []seedFarm `json:"farms"`
}

type seedData struct {
	Products  []*models.ControlProduct `json:"products"`
	Producers []seedProducer           `json:"producers"`
}

// SeedSummary counts what a seed run created
type SeedSummary struct {
	Skipped   bool `json:"skipped"`
	Products  int  `json:"products"`
	Producers int  `json:"producers"`
	Farms     int  `json:"farms"`
	Nurseries int  `json:"nurseries"`
	Tasks     int  `json:"tasks"`
}

// Seeder loads demo data through the services, so every record passes the same rules as
// an API request
type Seeder struct {
	store     store.Store
	log       *slog.Logger
	producers *ProducerService
	farms     *FarmService
	tasks     *TaskService
	products  *ProductService
}

// NewSeeder creates a Seeder over s
func NewSeeder(s store.Store, log *slog.Logger, m *metrics.Metrics) *Seeder {
	if log == nil {
		log = slog.Default()
	}
	return &Seeder{
		store:     s,
		log:       log.With("service", "seed"),
		producers: NewProducerService(s, log, m),
		farms:     NewFarmService(s, log, m),
		tasks:     NewTaskService(s, log, m),
		products:  NewProductService(s, log, m),
	}
}

// Seed loads raw unless producers already exist
func (s *Seeder) Seed(ctx context.Context, raw []byte) (SeedSummary, error) {
	var summary SeedSummary

	count, err := s.store.CountProducers(ctx)
	if err != nil {
		return summary, err
	}
	if count > 0 {
		s.log.Info("Database already holds data, skipping seed", "producers", count)
		summary.Skipped = true
		return summary, nil
	}

	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return summary, fmt.Errorf("failed to parse seed data: %w", err)
	}

	productIDs := make(map[string]uint64, len(data.Products))
	for _, product := range data.Products {
		if _, err := s.products.RegisterProduct(ctx, product); err != nil {
			return summary, fmt.Errorf("seed product %s: %w", product.ICARegistry, err)
		}
		productIDs[product.ICARegistry] = product.ID
		summary.Products++
	}

	for i := range data.Producers {
		sp := &data.Producers[i]
		producer := &sp.Producer

		farms := make([]*models.Farm, len(sp.Farms))
		for j := range sp.Farms {
			farms[j] = &sp.Farms[j].Farm
		}
		if _, err := s.producers.RegisterProducerWithFarms(ctx, producer, farms); err != nil {
			return summary, fmt.Errorf("seed producer %s: %w", producer.Document, err)
		}
		summary.Producers++
		summary.Farms += len(farms)

		for j := range sp.Farms {
			if err := s.seedNurseries(ctx, farms[j].ID, sp.Farms[j].Nurseries, productIDs, &summary); err != nil {
				return summary, err
			}
		}
	}

	s.log.Info("Seed data loaded",
		"products", summary.Products,
		"producers", summary.Producers,
		"farms", summary.Farms,
		"nurseries", summary.Nurseries,
		"tasks", summary.Tasks)
	return summary, nil
}

func (s *Seeder) seedNurseries(ctx context.Context, farmID uint64, nurseries []seedNursery, productIDs map[string]uint64, summary *SeedSummary) error {
	for k := range nurseries {
		nursery, err := s.farms.AddNurseryToFarm(ctx, farmID, &nurseries[k].Nursery)
		if err != nil {
			return fmt.Errorf("seed nursery %s: %w", nurseries[k].Code, err)
		}
		summary.Nurseries++

		for _, st := range nurseries[k].Tasks {
			task := st.Task
			var productID *uint64
			if st.ProductICARegistry != "" {
				id, ok := productIDs[st.ProductICARegistry]
				if !ok {
					return fmt.Errorf("seed task %q: unknown product %s", task.Description, st.ProductICARegistry)
				}
				productID = &id
			}
			if _, err := s.tasks.RegisterTaskWithProduct(ctx, &task, nursery.ID, productID); err != nil {
				return fmt.Errorf("seed task %q: %w", task.Description, err)
			}
			summary.Tasks++
		}
	}
	return nil
}

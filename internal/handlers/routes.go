// routes.go
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

package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/middleware"
	"github.com/localnerve/viverodb/internal/services"
	"github.com/localnerve/viverodb/internal/store"
)

// Handlers groups the route handlers of the API
type Handlers struct {
	Producers *ProducerHandler
	Farms     *FarmHandler
	Tasks     *TaskHandler
	Products  *ProductHandler
}

// New builds the handlers and the services behind them over s
func New(s store.Store, log *slog.Logger, m *metrics.Metrics) *Handlers {
	return &Handlers{
		Producers: &ProducerHandler{Producers: services.NewProducerService(s, log, m)},
		Farms:     &FarmHandler{Farms: services.NewFarmService(s, log, m)},
		Tasks:     &TaskHandler{Tasks: services.NewTaskService(s, log, m)},
		Products:  &ProductHandler{Products: services.NewProductService(s, log, m)},
	}
}

// Register mounts every API route on api, normally the /api group.
// Literal segments are registered before the parameter routes that would shadow them.
func (h *Handlers) Register(api fiber.Router) {
	api.Use(middleware.VersionMiddleware())

	producers := api.Group("/producers")
	producers.Post("/", h.Producers.RegisterProducer)
	producers.Post("/with-farms", h.Producers.RegisterProducerWithFarms)
	producers.Get("/", h.Producers.GetAllProducers)
	producers.Get("/document/:document", h.Producers.FindByDocument)
	producers.Get("/:id", h.Producers.GetProducer)
	producers.Put("/:id", h.Producers.UpdateProducer)
	producers.Delete("/:id", h.Producers.DeleteProducer)
	producers.Get("/:id/farms", h.Producers.GetFarms)
	producers.Post("/:id/farms", h.Producers.AddFarm)
	producers.Delete("/:id/farms/:farmId", h.Producers.RemoveFarm)

	farms := api.Group("/farms")
	farms.Get("/cadastral/:number", h.Farms.FindByCadastralNumber)
	farms.Get("/:id", h.Farms.GetFarm)
	farms.Get("/:id/nurseries", h.Farms.GetNurseries)
	farms.Post("/:id/nurseries", h.Farms.AddNursery)
	farms.Delete("/:id/nurseries/:nurseryId", h.Farms.RemoveNursery)

	nurseries := api.Group("/nurseries")
	nurseries.Get("/", h.Farms.GetNurseriesByCropType)
	nurseries.Get("/:id", h.Farms.GetNursery)
	nurseries.Get("/:id/tasks.xlsx", h.Farms.ExportTasks)

	tasks := api.Group("/tasks")
	tasks.Post("/", h.Tasks.RegisterTask)
	tasks.Post("/with-product", h.Tasks.RegisterTaskWithProduct)
	tasks.Get("/", h.Tasks.GetAllTasks)
	tasks.Get("/range", h.Tasks.GetTasksByDateRange)
	tasks.Get("/date/:date", h.Tasks.GetTasksByDate)
	tasks.Get("/nursery/:nurseryId", h.Tasks.GetTasksByNursery)
	tasks.Get("/product/:productId", h.Tasks.GetTasksByProduct)
	tasks.Get("/:id", h.Tasks.GetTask)
	tasks.Put("/:id", h.Tasks.UpdateTask)
	tasks.Delete("/:id", h.Tasks.DeleteTask)

	products := api.Group("/products")
	products.Post("/", h.Products.RegisterProduct)
	products.Get("/", h.Products.GetProducts)
	products.Get("/fungicides", h.Products.GetFungicides)
	products.Get("/ica/:code", h.Products.FindByICARegistry)
	products.Get("/:id", h.Products.GetProduct)
	products.Delete("/:id", h.Products.DeleteProduct)
}

// store.go
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

// Package store is the persistence collaborator of the services. The Store interface is the only
// thing services see; GormStore implements it on any GORM dialect.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/localnerve/viverodb/internal/models"
	"github.com/localnerve/viverodb/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// Store persists the producer graph and the control-product catalog.
// Find methods return an error wrapping types.ErrNotFound when nothing matches.
type Store interface {
	// Transaction runs fn against a Store bound to one database transaction.
	// A non-nil error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(Store) error) error

	SaveProducer(ctx context.Context, p *models.Producer) error
	FindProducer(ctx context.Context, id uint64) (*models.Producer, error)
	FindProducerWithFarms(ctx context.Context, id uint64) (*models.Producer, error)
	FindProducerByDocument(ctx context.Context, document string) (*models.Producer, error)
	ExistsProducer(ctx context.Context, id uint64) (bool, error)
	ExistsProducerByDocument(ctx context.Context, document string) (bool, error)
	ListProducers(ctx context.Context) ([]*models.Producer, error)
	CountProducers(ctx context.Context) (int64, error)
	DeleteProducer(ctx context.Context, id uint64) error

	SaveFarm(ctx context.Context, f *models.Farm) error
	FindFarm(ctx context.Context, id uint64) (*models.Farm, error)
	FindFarmWithNurseries(ctx context.Context, id uint64) (*models.Farm, error)
	FindFarmByCadastralNumber(ctx context.Context, number string) (*models.Farm, error)
	ExistsFarm(ctx context.Context, id uint64) (bool, error)
	ExistsFarmByCadastralNumber(ctx context.Context, number string) (bool, error)
	ListFarmsByProducer(ctx context.Context, producerID uint64) ([]*models.Farm, error)
	DeleteFarm(ctx context.Context, id uint64) error

	SaveNursery(ctx context.Context, n *models.Nursery) error
	FindNursery(ctx context.Context, id uint64) (*models.Nursery, error)
	FindNurseryWithTasks(ctx context.Context, id uint64) (*models.Nursery, error)
	ExistsNursery(ctx context.Context, id uint64) (bool, error)
	ListNurseriesByFarm(ctx context.Context, farmID uint64) ([]*models.Nursery, error)
	ListNurseriesByCropType(ctx context.Context, cropType string) ([]*models.Nursery, error)
	DeleteNursery(ctx context.Context, id uint64) error

	SaveTask(ctx context.Context, t *models.Task) error
	FindTask(ctx context.Context, id uint64) (*models.Task, error)
	ListTasks(ctx context.Context) ([]*models.Task, error)
	ListTasksByNursery(ctx context.Context, nurseryID uint64) ([]*models.Task, error)
	ListTasksByDate(ctx context.Context, date types.Date) ([]*models.Task, error)
	ListTasksByDateRange(ctx context.Context, start, end types.Date) ([]*models.Task, error)
	ListTasksByProduct(ctx context.Context, productID uint64) ([]*models.Task, error)
	CountTasksByProduct(ctx context.Context, productID uint64) (int64, error)
	DeleteTask(ctx context.Context, id uint64) error

	SaveProduct(ctx context.Context, p *models.ControlProduct) error
	FindProduct(ctx context.Context, id uint64) (*models.ControlProduct, error)
	FindProductByICARegistry(ctx context.Context, code string) (*models.ControlProduct, error)
	ExistsProductByICARegistry(ctx context.Context, code string) (bool, error)
	ListProducts(ctx context.Context) ([]*models.ControlProduct, error)
	ListProductsByKind(ctx context.Context, kind models.ProductKind) ([]*models.ControlProduct, error)
	ListFungicidesByFungusName(ctx context.Context, fungusName string) ([]*models.ControlProduct, error)
	DeleteProduct(ctx context.Context, id uint64) error
}

// GormStore implements Store with GORM
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

// New returns a Store over db
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for health checks and tooling
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// Transaction implements Store
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
}

// query starts a statement bound to ctx, tagged with name for the database logs
func (s *GormStore) query(ctx context.Context, name string) *gorm.DB {
	return s.db.WithContext(ctx).Clauses(hints.Comment("select", "viverodb:"+name))
}

// write starts an insert/update/delete bound to ctx that never touches associations
func (s *GormStore) write(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Omit(clause.Associations)
}

// owner starts a lookup of a parent row. Inside a transaction the row stays locked until commit.
func (s *GormStore) owner(ctx context.Context, name string) *gorm.DB {
	q := s.query(ctx, name)
	if s.inTx {
		q = lockForUpdate(q)
	}
	return q
}

// lockForUpdate adds a row lock on dialects that take FOR UPDATE
func lockForUpdate(db *gorm.DB) *gorm.DB {
	switch db.Dialector.Name() {
	case "sqlserver", "sqlite":
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// byID orders a list by primary key
func byID(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id")
	}
}

// findOne runs q.First into a new T, converting a missing row to a not found error
func findOne[T any](q *gorm.DB, entity string, key any) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		return nil, translate(err, entity, key)
	}
	return &out, nil
}

// exists reports whether any row of T matches the condition
func exists[T any](q *gorm.DB, query string, args ...any) (bool, error) {
	var count int64
	if err := q.Model(new(T)).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// save inserts when the id is unset and updates all columns otherwise.
// key names the record in a duplicate key error.
func save[T any](db *gorm.DB, value *T, id uint64, entity string, key any) error {
	var err error
	if id == 0 {
		err = db.Create(value).Error
	} else {
		err = db.Save(value).Error
	}
	return translate(err, entity, key)
}

// deleteByID removes the row with id, or reports it as not found
func deleteByID[T any](db *gorm.DB, entity string, id uint64) error {
	result := db.Delete(new(T), id)
	if result.Error != nil {
		return translate(result.Error, entity, id)
	}
	if result.RowsAffected == 0 {
		return types.NewNotFoundError("%s %d not found", entity, id)
	}
	return nil
}

// translate maps driver and GORM errors to the error kinds the services report
func translate(err error, entity string, key any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return types.NewNotFoundError("%s %v not found", entity, key)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return types.NewDuplicateKeyError("%s %v already exists", entity, key)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return types.NewInUseError("%s %v violates a reference: %v", entity, key, err)
	}
	return err
}

// isUniqueViolation catches unique index errors from drivers that do not translate them
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

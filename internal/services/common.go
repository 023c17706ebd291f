package services

import (
	"errors"
	"log/slog"

	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/types"
)

// base carries what every service shares
type base struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

func newBase(log *slog.Logger, m *metrics.Metrics, component string) base {
	if log == nil {
		log = slog.Default()
	}
	return base{log: log.With("service", component), metrics: m}
}

// reject records a failed operation and returns err unchanged
func (b base) reject(op string, err error) error {
	kind := types.KindOf(err)
	b.metrics.Rejected(kind)
	if kind == "internal" {
		b.log.Error("Operation failed", "op", op, "error", err)
	} else {
		b.log.Debug("Operation rejected", "op", op, "kind", kind, "error", err)
	}
	return err
}

// created records a new row of entity
func (b base) created(entity string, id uint64, attrs ...any) {
	b.metrics.Created(entity)
	b.log.Info("Created "+entity, append([]any{"id", id}, attrs...)...)
}

// deleted records the removal of a row of entity and its owned rows
func (b base) deleted(entity string, id uint64) {
	b.metrics.Deleted(entity)
	b.log.Info("Deleted "+entity, "id", id)
}

// optional turns a not found error into an empty result
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

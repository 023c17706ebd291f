// Package metrics provides the domain Prometheus metrics of the record-keeping services.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts record mutations and rejected requests
type Metrics struct {
	RecordsCreated *prometheus.CounterVec // by entity
	RecordsDeleted *prometheus.CounterVec // by entity
	Rejections     *prometheus.CounterVec // by error kind
}

// New creates the metrics and registers them with registry
func New(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		RecordsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viverodb_records_created_total",
				Help: "Total number of records created by entity",
			},
			[]string{"entity"}, // producer, farm, nursery, task, product
		),
		RecordsDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viverodb_records_deleted_total",
				Help: "Total number of records deleted by entity, counting the deleted root only",
			},
			[]string{"entity"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viverodb_rejections_total",
				Help: "Total number of rejected operations by error kind",
			},
			[]string{"kind"}, // validation, duplicate, notfound, inuse, internal
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register viverodb metrics: %w", err)
	}
	return m, nil
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.RecordsCreated.Describe(ch)
	m.RecordsDeleted.Describe(ch)
	m.Rejections.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.RecordsCreated.Collect(ch)
	m.RecordsDeleted.Collect(ch)
	m.Rejections.Collect(ch)
}

// Created counts one created record. Safe on a nil receiver.
func (m *Metrics) Created(entity string) {
	if m == nil {
		return
	}
	m.RecordsCreated.WithLabelValues(entity).Inc()
}

// Deleted counts one deleted record. Safe on a nil receiver.
func (m *Metrics) Deleted(entity string) {
	if m == nil {
		return
	}
	m.RecordsDeleted.WithLabelValues(entity).Inc()
}

// Rejected counts one rejection of the given kind. Safe on a nil receiver.
func (m *Metrics) Rejected(kind string) {
	if m == nil || kind == "" {
		return
	}
	m.Rejections.WithLabelValues(kind).Inc()
}

package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "forumcore"

// Metrics holds the prometheus collectors fed by aggregate writes and cascades.
type Metrics struct {
	registry *prometheus.Registry

	aggregateOps      *prometheus.HistogramVec
	aggregateConflict *prometheus.CounterVec
	aggregateRetry    *prometheus.CounterVec
	cascadeRows       *prometheus.CounterVec
}

// NewMetrics registers every collector on reg. A nil reg gets a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		aggregateOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "operation_duration_seconds",
			Help:      "Duration of aggregate write operations by outcome.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation", "status"}),
		aggregateConflict: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "conflicts_total",
			Help:      "Aggregate writes rejected by a concurrency guard.",
		}, []string{"operation"}),
		aggregateRetry: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "retryable_failures_total",
			Help:      "Aggregate writes that failed with a retryable database error.",
		}, []string{"operation"}),
		cascadeRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cascade",
			Name:      "rows_total",
			Help:      "Rows deleted or nulled by cascading deletes.",
		}, []string{"table", "action"}),
	}
	reg.MustRegister(m.aggregateOps, m.aggregateConflict, m.aggregateRetry, m.cascadeRows)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.WithLabelValues(label(name), label(status)).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflict.WithLabelValues(label(name)).Inc()
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetry.WithLabelValues(label(name)).Inc()
}

// AddCascadeRows records rows removed ("deleted") or detached ("nulled") per table.
func (m *Metrics) AddCascadeRows(table, action string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.cascadeRows.WithLabelValues(label(table), label(action)).Add(float64(n))
}

func label(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}

package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/forumcore/internal/data/cascade"
	"github.com/yungbote/forumcore/internal/observability"
)

// Hooks receives aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
	ObserveCascade(name string, rep *cascade.Report)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
func (noopHooks) ObserveCascade(string, *cascade.Report)         {}

type metricsHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks feeds aggregate events into prometheus collectors.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &metricsHooks{metrics: metrics}
}

func (h *metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *metricsHooks) IncConflict(name string) {
	h.metrics.IncAggregateConflict(strings.TrimSpace(name))
}

func (h *metricsHooks) IncRetry(name string) {
	h.metrics.IncAggregateRetry(strings.TrimSpace(name))
}

func (h *metricsHooks) ObserveCascade(_ string, rep *cascade.Report) {
	if rep == nil {
		return
	}
	for table, n := range rep.Deleted {
		h.metrics.AddCascadeRows(table, "deleted", n)
	}
	for table, n := range rep.Nulled {
		h.metrics.AddCascadeRows(table, "nulled", n)
	}
}

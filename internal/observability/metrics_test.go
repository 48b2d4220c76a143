package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAggregateCounters(t *testing.T) {
	m := NewMetrics(nil)

	m.ObserveAggregateOperation("Forum.CreateTopic", "success", 12*time.Millisecond)
	m.ObserveAggregateOperation("Forum.CreateTopic", "validation", time.Millisecond)
	m.IncAggregateConflict("Mentorship.Accept")
	m.IncAggregateConflict("Mentorship.Accept")
	m.IncAggregateRetry(" ")

	assert.Equal(t, 2, testutil.CollectAndCount(m.aggregateOps))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.aggregateConflict.WithLabelValues("Mentorship.Accept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregateRetry.WithLabelValues("unknown")))
}

func TestMetricsCascadeRowsIgnoresEmptyCounts(t *testing.T) {
	m := NewMetrics(nil)

	m.AddCascadeRows("messages", "deleted", 3)
	m.AddCascadeRows("messages", "deleted", 0)
	m.AddCascadeRows("topics", "nulled", 1)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.cascadeRows.WithLabelValues("messages", "deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cascadeRows.WithLabelValues("topics", "nulled")))
}

func TestMetricsRegistryGathers(t *testing.T) {
	m := NewMetrics(nil)
	m.IncAggregateRetry("Documents.AddGraphEdge")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["forumcore_aggregate_retryable_failures_total"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAggregateOperation("x", "success", time.Second)
	m.IncAggregateConflict("x")
	m.IncAggregateRetry("x")
	m.AddCascadeRows("x", "deleted", 1)
	assert.Nil(t, m.Registry())
}

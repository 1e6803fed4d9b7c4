package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewUsesIsolatedRegistry(t *testing.T) {
	a := New()
	b := New()

	a.Activity.WithLabelValues("task.created").Inc()
	a.Activity.WithLabelValues("task.created").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.Activity.WithLabelValues("task.created")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Activity.WithLabelValues("task.created")))
}

func TestGatherIncludesDomainCollectors(t *testing.T) {
	m := New()
	m.OverdueTasks.Set(3)
	m.HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()

	count, err := testutil.GatherAndCount(m.Registry, "tracker_overdue_tasks", "tracker_http_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

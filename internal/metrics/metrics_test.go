package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePass("timer", "COMPLETED", 2*time.Second)
	m.IncResolverLookup("failed")
	m.IncResolverLookup("failed")
	m.IncAlert("warning")
	m.IncNotification("tg", true)
	m.IncNotification("tg", false)
	m.IncTriggerRequest("/api/cron", 403)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Passes.WithLabelValues("timer", "COMPLETED")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ResolverLookups.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Alerts.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("tg", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("tg", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TriggerRequests.WithLabelValues("/api/cron", "4xx")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePass("manual", "FAILED", time.Second)
		m.IncResolverLookup("refreshed")
		m.IncAlert("expired")
		m.IncNotification("webhook", false)
		m.IncTriggerRequest("/api/check/{id}", 500)
	})
}

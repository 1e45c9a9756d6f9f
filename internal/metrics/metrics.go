package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for reconciliation passes and notification delivery.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Passes by source and final status
	Passes *prometheus.CounterVec

	PassDuration prometheus.Histogram

	// Resolver lookups by outcome: "refreshed", "empty", "failed"
	ResolverLookups *prometheus.CounterVec

	// Alerts raised by classification: "warning", "expired"
	Alerts *prometheus.CounterVec

	// Channel deliveries by channel type and outcome: "sent", "failed"
	Notifications *prometheus.CounterVec

	// Trigger requests by route and response code
	TriggerRequests *prometheus.CounterVec
}

// New registers all metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Passes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expirywatch_passes_total",
			Help: "Total reconciliation passes by source and status",
		}, []string{"source", "status"}),

		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "expirywatch_pass_duration_seconds",
			Help:    "Duration of a full reconciliation pass",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),

		ResolverLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expirywatch_resolver_lookups_total",
			Help: "Expiry resolver lookups by outcome",
		}, []string{"outcome"}),

		Alerts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expirywatch_alerts_total",
			Help: "Expiry alerts raised by classification",
		}, []string{"classification"}),

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expirywatch_notifications_total",
			Help: "Notification deliveries by channel type and outcome",
		}, []string{"channel_type", "outcome"}),

		TriggerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expirywatch_trigger_requests_total",
			Help: "On-demand trigger requests by route and status code",
		}, []string{"route", "code"}),
	}
}

// ObservePass records a finished pass.
func (m *Metrics) ObservePass(source, status string, d time.Duration) {
	if m != nil {
		m.Passes.WithLabelValues(source, status).Inc()
		m.PassDuration.Observe(d.Seconds())
	}
}

// IncResolverLookup records a resolver lookup outcome.
func (m *Metrics) IncResolverLookup(outcome string) {
	if m != nil {
		m.ResolverLookups.WithLabelValues(outcome).Inc()
	}
}

// IncAlert records a warning or expired classification.
func (m *Metrics) IncAlert(classification string) {
	if m != nil {
		m.Alerts.WithLabelValues(classification).Inc()
	}
}

// IncNotification records a single channel delivery.
func (m *Metrics) IncNotification(channelType string, ok bool) {
	if m == nil {
		return
	}
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.Notifications.WithLabelValues(channelType, outcome).Inc()
}

// IncTriggerRequest records an on-demand trigger response.
func (m *Metrics) IncTriggerRequest(route string, code int) {
	if m != nil {
		m.TriggerRequests.WithLabelValues(route, statusLabel(code)).Inc()
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

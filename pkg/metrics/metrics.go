// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ExtractionDuration tracks extraction model call duration.
	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Extraction model call duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 15, 20, 30, 45},
		},
		[]string{"kind", "status"},
	)

	// TurnsTotal tracks processed conversation turns by intent branch.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_turns_total",
			Help: "Total conversation turns processed",
		},
		[]string{"intent", "status"},
	)

	// SessionsFinalized tracks sessions whose requirements reached completion.
	SessionsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_finalized_total",
			Help: "Total sessions with a finalization snapshot written",
		},
		[]string{"status"},
	)

	// PlannerNotifications tracks downstream planning agent calls.
	PlannerNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_notifications_total",
			Help: "Total planning agent notification attempts",
		},
		[]string{"status"},
	)

	// PolicyDecisions tracks input and output policy check outcomes.
	PolicyDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "policy_decisions_total",
			Help: "Total policy check decisions",
		},
		[]string{"stage", "decision"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordExtraction records metrics for an extraction model call.
func RecordExtraction(kind, status string, duration float64) {
	ExtractionDuration.WithLabelValues(kind, status).Observe(duration)
}

// RecordTurn records a processed conversation turn.
func RecordTurn(intent, status string) {
	TurnsTotal.WithLabelValues(intent, status).Inc()
}

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

	// DirectoryListsTotal tracks conversation directory refreshes.
	DirectoryListsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_lists_total",
			Help: "Conversation directory listings by outcome",
		},
		[]string{"outcome"},
	)

	// DirectoryCacheHits tracks directory cache lookups.
	DirectoryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_cache_lookups_total",
			Help: "Directory cache lookups by result",
		},
		[]string{"result"},
	)

	// MessagesSentTotal tracks messages accepted by the dispatcher.
	MessagesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Messages durably sent",
		},
	)

	// DuplicateEventsTotal tracks live events discarded as duplicates.
	DuplicateEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_duplicate_events_total",
			Help: "Live insert events discarded by id dedup",
		},
	)

	// StaleResultsTotal tracks async results dropped by supersession.
	StaleResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_stale_results_total",
			Help: "Fetch results and events dropped after a selection change",
		},
	)

	// LiveSubscriptionsActive tracks open realtime subscriptions.
	LiveSubscriptionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_live_subscriptions_active",
			Help: "Number of active per-conversation subscriptions",
		},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}

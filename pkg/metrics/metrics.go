// Package metrics holds the Prometheus collectors of the ExApp and its
// tooling. Collectors register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exapp"

// Backend proxy metrics
var (
	// ProxyRequestsTotal counts proxied requests by method and response status.
	ProxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proxy_requests_total",
			Help:      "Requests forwarded to the backend by method and status",
		},
		[]string{"method", "status"},
	)

	// ProxyRequestDuration tracks backend round trip latency in seconds.
	ProxyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "proxy_request_duration_seconds",
			Help:      "Backend round trip duration in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method"},
	)

	// CircuitBreakerStateChanges counts breaker transitions by component and new state.
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_changes_total",
			Help:      "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState is the current breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Nextcloud metrics
var (
	// OCSRequestsTotal counts OCS API calls by endpoint and outcome.
	OCSRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ocs_requests_total",
			Help:      "Nextcloud OCS API calls by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	// OCCInvocationsTotal counts occ commands by command name and outcome.
	OCCInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "occ_invocations_total",
			Help:      "occ invocations by command and status",
		},
		[]string{"command", "status"},
	)
)

// Status returns the outcome label for err.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

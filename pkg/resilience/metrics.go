package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	retryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resilience_retry_attempts_total",
			Help: "Retry attempts grouped by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resilience_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"breaker"},
	)
)

// RecordRetryAttempt records a single retry attempt outcome.
func RecordRetryAttempt(operation string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	retryAttempts.WithLabelValues(operation, outcome).Inc()
}

// RecordBreakerState records a breaker state transition.
func RecordBreakerState(name, state string) {
	var value float64
	switch state {
	case "half-open":
		value = 1
	case "open":
		value = 2
	}
	breakerState.WithLabelValues(name).Set(value)
}

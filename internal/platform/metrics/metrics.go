package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the consent bootstrap.
type Metrics struct {
	PromptShown        prometheus.Counter
	ConsentDecisions   *prometheus.CounterVec
	ActivationAttempts prometheus.Counter
	ActivationFailures prometheus.Counter
	ActivationDuration prometheus.Histogram
	RequestDuration    prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PromptShown: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentgate_prompt_shown_total",
			Help: "Total number of times the consent prompt was shown",
		}),
		ConsentDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentgate_consent_decisions_total",
			Help: "Total number of recorded consent decisions by outcome",
		}, []string{"decision"}),
		ActivationAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentgate_activation_attempts_total",
			Help: "Total number of instrumentation activation attempts",
		}),
		ActivationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentgate_activation_failures_total",
			Help: "Total number of failed instrumentation activations",
		}),
		ActivationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "consentgate_activation_duration_ms",
			Help:    "Latency of instrumentation activation in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		RequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "consentgate_request_duration_ms",
			Help:    "Latency of HTTP requests in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500},
		}),
	}
}

// ObserveRequestDuration records HTTP request latency in milliseconds.
func (m *Metrics) ObserveRequestDuration(ms float64) {
	m.RequestDuration.Observe(ms)
}

// IncrementPromptShown records a prompt display.
func (m *Metrics) IncrementPromptShown() {
	m.PromptShown.Inc()
}

// IncrementConsentDecision records a decision outcome ("accepted"/"rejected").
func (m *Metrics) IncrementConsentDecision(decision string) {
	m.ConsentDecisions.WithLabelValues(decision).Inc()
}

// IncrementActivationAttempts records an activation attempt.
func (m *Metrics) IncrementActivationAttempts() {
	m.ActivationAttempts.Inc()
}

// IncrementActivationFailures records a failed activation.
func (m *Metrics) IncrementActivationFailures() {
	m.ActivationFailures.Inc()
}

// ObserveActivationDuration records activation latency in milliseconds.
func (m *Metrics) ObserveActivationDuration(ms float64) {
	m.ActivationDuration.Observe(ms)
}

package tourapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records upstream attempts. A nil *Metrics records nothing.
type Metrics struct {
	attemptsTotal   *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	shapesTotal     *prometheus.CounterVec
	breakerState    *prometheus.GaugeVec
}

// NewMetrics registers the upstream collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		attemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourapi_attempts_total",
				Help: "Upstream attempts by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		attemptDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tourapi_attempt_duration_seconds",
				Help:    "Duration of a single upstream attempt",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),
		retriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourapi_retries_total",
				Help: "Retries scheduled after a failed attempt",
			},
			[]string{"endpoint"},
		),
		shapesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourapi_envelope_shape_total",
				Help: "Body layouts seen in successful envelopes",
			},
			[]string{"shape"},
		),
		breakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tourapi_circuit_breaker_state",
				Help: "Breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
	}
}

func (m *Metrics) recordAttempt(endpoint string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.attemptsTotal.WithLabelValues(endpoint, outcome(err)).Inc()
	m.attemptDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) recordRetry(endpoint string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) recordShape(shape Shape) {
	if m == nil {
		return
	}
	m.shapesTotal.WithLabelValues(string(shape)).Inc()
}

func (m *Metrics) setBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(state)
}

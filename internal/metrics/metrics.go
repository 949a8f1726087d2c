package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robalyx/frost/internal/mute"
)

const (
	StatusOK = "ok"
)

// Metrics exports mute activity as Prometheus collectors.
type Metrics struct {
	actions       *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	sweeps        *prometheus.CounterVec
	sweepDuration prometheus.Histogram
	restored      prometheus.Counter
	loopsActive   prometheus.Gauge
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "frost_mute_actions_total",
			Help: "Platform suspend and restore actions by result",
		}, []string{"action", "result"}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "frost_mute_outcomes_total",
			Help: "Mute requests by outcome category",
		}, []string{"category"}),
		sweeps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "frost_expiry_sweeps_total",
			Help: "Expiry sweeps by result",
		}, []string{"result"}),
		sweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "frost_expiry_sweep_duration_seconds",
			Help:    "Time taken by one expiry sweep",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		restored: factory.NewCounter(prometheus.CounterOpts{
			Name: "frost_expiry_restored_total",
			Help: "Members restored by expiry sweeps",
		}),
		loopsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "frost_expiry_loops_active",
			Help: "Expiry loops currently running",
		}),
	}
}

// ObserveAction counts one platform action. A zero cause is counted as ok.
func (m *Metrics) ObserveAction(action string, cause mute.Cause) {
	result := StatusOK
	if cause != 0 {
		result = cause.String()
	}
	m.actions.WithLabelValues(action, result).Inc()
}

func (m *Metrics) ObserveOutcome(category string) {
	m.outcomes.WithLabelValues(category).Inc()
}

func (m *Metrics) ObserveSweep(result string, elapsed time.Duration, restored int) {
	m.sweeps.WithLabelValues(result).Inc()
	m.sweepDuration.Observe(elapsed.Seconds())
	m.restored.Add(float64(restored))
}

func (m *Metrics) LoopStarted() {
	m.loopsActive.Inc()
}

func (m *Metrics) LoopStopped() {
	m.loopsActive.Dec()
}

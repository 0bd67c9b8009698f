package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for calendar request handling.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	conflicts    prometheus.Counter
	syncs        *prometheus.CounterVec
	readFailures *prometheus.CounterVec
}

// MustNewMetrics constructs Metrics and registers them with reg. Any
// registration error panics, mirroring the promauto helpers.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wellnesscal",
				Subsystem: "calendar",
				Name:      "requests_total",
				Help:      "Calendar requests by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wellnesscal",
				Subsystem: "calendar",
				Name:      "request_duration_seconds",
				Help:      "Time spent handling a calendar request.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		conflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "wellnesscal",
				Subsystem: "calendar",
				Name:      "conflicts_detected_total",
				Help:      "Conflicting events reported by the conflict detector.",
			},
		),
		syncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wellnesscal",
				Subsystem: "calendar",
				Name:      "provider_syncs_total",
				Help:      "External calendar sync attempts by result.",
			},
			[]string{"result"},
		),
		readFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wellnesscal",
				Subsystem: "calendar",
				Name:      "degraded_reads_total",
				Help:      "Read-path data access failures that were degraded to empty results.",
			},
			[]string{"component"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.conflicts, m.syncs, m.readFailures)
	return m
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// AddConflicts counts detected conflicts.
func (m *Metrics) AddConflicts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.conflicts.Add(float64(n))
}

// ObserveSync records a provider sync result: "ok", "token_expired" or "provider".
func (m *Metrics) ObserveSync(result string) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(result).Inc()
}

// ObserveDegradedRead records a swallowed read failure in component.
func (m *Metrics) ObserveDegradedRead(component string) {
	if m == nil {
		return
	}
	m.readFailures.WithLabelValues(component).Inc()
}

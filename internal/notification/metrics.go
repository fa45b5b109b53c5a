package notification

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cycle outcomes recorded by Metrics.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Metrics counts reminder deliveries and cycles.
type Metrics struct {
	sent          prometheus.Counter
	failed        prometheus.Counter
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "myplants",
			Name:      "notifications_sent_total",
			Help:      "Watering reminders delivered.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "myplants",
			Name:      "notifications_failed_total",
			Help:      "Watering reminders that could not be delivered.",
		}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "myplants",
			Name:      "notification_cycles_total",
			Help:      "Reminder cycles by outcome.",
		}, []string{"outcome"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "myplants",
			Name:      "notification_cycle_duration_seconds",
			Help:      "Wall time of reminder cycles.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}
	reg.MustRegister(m.sent, m.failed, m.cycles, m.cycleDuration)
	return m
}

func (m *Metrics) observeSent() { m.sent.Inc() }

func (m *Metrics) observeFailed(n int) { m.failed.Add(float64(n)) }

func (m *Metrics) observeCycle(outcome string, seconds float64) {
	m.cycles.WithLabelValues(outcome).Inc()
	if outcome != OutcomeSkipped {
		m.cycleDuration.Observe(seconds)
	}
}

package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts dispatches per command, environment and result class.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shellbridge_dispatch_total",
				Help: "Total command dispatches by command, environment, and result.",
			},
			[]string{"command", "environment", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shellbridge_dispatch_duration_seconds",
				Help:    "Command dispatch latency by command and environment.",
				Buckets: prometheus.ExponentialBuckets(0.005, 4, 7),
			},
			[]string{"command", "environment"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.calls, m.duration)
	}
	return m
}

func (m *Metrics) observe(command, environment, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(command, environment, result).Inc()
	m.duration.WithLabelValues(command, environment).Observe(took.Seconds())
}

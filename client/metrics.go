package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments translate calls. Opt-in via WithMetrics; the SDK
// never registers collectors on the default registry implicitly.
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates and registers translate-call collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kaiwadb_translate_requests_total",
				Help: "Total number of translate requests by outcome status.",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kaiwadb_translate_duration_seconds",
				Help:    "Translate request latency.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// MustMetrics is like NewMetrics but panics on registration failure.
func MustMetrics(reg prometheus.Registerer) *Metrics {
	m, err := NewMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) observe(status string, duration time.Duration) {
	m.requests.WithLabelValues(status).Inc()
	m.duration.Observe(duration.Seconds())
}

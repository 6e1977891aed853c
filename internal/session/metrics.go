package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeNil   = "nil"
)

// Metrics counts loads and cache lookups. A nil *Metrics records nothing.
type Metrics struct {
	loads        *prometheus.CounterVec
	cache        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabloom_loads_total",
				Help: "Dataset loads by outcome (ok, error, nil).",
			},
			[]string{"dataset", "outcome"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabloom_cache_requests_total",
				Help: "Memo lookups by result (hit, miss).",
			},
			[]string{"dataset", "result"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tabloom_load_duration_seconds",
				Help:    "Time spent parsing and cleaning a dataset.",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"dataset"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.loads, m.cache, m.loadDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordLoad(dataset, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(dataset, outcome).Inc()
	m.loadDuration.WithLabelValues(dataset).Observe(d.Seconds())
}

func (m *Metrics) recordCache(dataset string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(dataset, result).Inc()
}

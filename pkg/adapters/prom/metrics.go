// Package prom exposes the engine's fire-and-forget metrics through
// Prometheus. Metric names like "session_new_in.intro" become the "event"
// label of a small fixed set of collectors, since dots are not legal in
// Prometheus metric names.
package prom

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Sink implements ports.MetricsSink on a Prometheus registry.
type Sink struct {
	counts    *prometheus.CounterVec
	averages  *prometheus.SummaryVec
	maxGauges *prometheus.GaugeVec

	mu   sync.Mutex
	maxs map[string]float64
}

// NewSink creates a sink and registers its collectors. The store label
// distinguishes deployments sharing one registry (the metric_store config
// option).
func NewSink(reg prometheus.Registerer, store string) *Sink {
	s := &Sink{
		counts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ussd_events_total",
			Help:        "Count metrics fired by the USSD engine.",
			ConstLabels: prometheus.Labels{"store": store},
		}, []string{"event"}),
		averages: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:        "ussd_average",
			Help:        "Running-average metrics fired by the USSD engine.",
			ConstLabels: prometheus.Labels{"store": store},
		}, []string{"event"}),
		maxGauges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "ussd_high_watermark",
			Help:        "High-watermark metrics fired by the USSD engine.",
			ConstLabels: prometheus.Labels{"store": store},
		}, []string{"event"}),
		maxs: make(map[string]float64),
	}
	reg.MustRegister(s.counts, s.averages, s.maxGauges)
	return s
}

// FireInc increments the named count metric.
func (s *Sink) FireInc(name string) {
	s.counts.WithLabelValues(name).Inc()
}

// FireAvg contributes value to the named running average.
func (s *Sink) FireAvg(name string, value float64) {
	s.averages.WithLabelValues(name).Observe(value)
}

// FireMax records value if it exceeds the previous watermark.
func (s *Sink) FireMax(name string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.maxs[name]; ok && value <= prev {
		return
	}
	s.maxs[name] = value
	s.maxGauges.WithLabelValues(name).Set(value)
}

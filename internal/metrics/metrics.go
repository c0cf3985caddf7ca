// Package metrics implements ports.MetricsSink over
// github.com/prometheus/client_golang, the way the rest of the example
// pack wires Prometheus: per-metric CounterVec/HistogramVec/GaugeVec
// collectors registered once and reused across calls.
//
// Unlike a fixed per-field registry (one collector per known metric
// name), PrometheusSink's callers supply an arbitrary metric name and
// label set at call time — ports.MetricsSink has no closed vocabulary
// of metric names — so collectors are created lazily, keyed by
// (name, sorted label keys), and cached for the sink's lifetime.
package metrics

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "payment_gateway"

// PrometheusSink implements ports.MetricsSink.
type PrometheusSink struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
}

// New constructs a PrometheusSink backed by registry. Pass
// prometheus.NewRegistry() for an isolated registry (tests, multiple
// instances in one process) or prometheus.DefaultRegisterer's registry
// for the common single-process case.
func New(registry *prometheus.Registry) *PrometheusSink {
	return &PrometheusSink{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// Registry exposes the underlying registry, e.g. for wiring
// promhttp.HandlerFor into the admin/metrics HTTP route.
func (s *PrometheusSink) Registry() *prometheus.Registry {
	return s.registry
}

func (s *PrometheusSink) IncCounter(name string, labels map[string]string) {
	keys, values := splitLabels(labels)
	s.mu.Lock()
	c, ok := s.counters[collectorKey(name, keys)]
	if !ok {
		c = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      name + " counter",
		}, keys)
		s.registry.MustRegister(c)
		s.counters[collectorKey(name, keys)] = c
	}
	s.mu.Unlock()
	c.WithLabelValues(values...).Inc()
}

func (s *PrometheusSink) ObserveHistogram(name string, value float64, labels map[string]string) {
	keys, values := splitLabels(labels)
	s.mu.Lock()
	h, ok := s.histograms[collectorKey(name, keys)]
	if !ok {
		h = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      name + " histogram",
			Buckets:   prometheus.DefBuckets,
		}, keys)
		s.registry.MustRegister(h)
		s.histograms[collectorKey(name, keys)] = h
	}
	s.mu.Unlock()
	h.WithLabelValues(values...).Observe(value)
}

func (s *PrometheusSink) SetGauge(name string, value float64, labels map[string]string) {
	keys, values := splitLabels(labels)
	s.mu.Lock()
	g, ok := s.gauges[collectorKey(name, keys)]
	if !ok {
		g = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      name + " gauge",
		}, keys)
		s.registry.MustRegister(g)
		s.gauges[collectorKey(name, keys)] = g
	}
	s.mu.Unlock()
	g.WithLabelValues(values...).Set(value)
}

// splitLabels returns label keys in stable sorted order and the
// matching values, so repeated calls with the same key set (in any map
// iteration order) hit the same cached collector.
func splitLabels(labels map[string]string) (keys, values []string) {
	keys = make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values = make([]string, len(keys))
	for i, k := range keys {
		values[i] = labels[k]
	}
	return keys, values
}

func collectorKey(name string, keys []string) string {
	return name + "|" + strings.Join(keys, ",")
}

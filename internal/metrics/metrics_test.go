package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusSink_IncCounter_AccumulatesPerLabelSet(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(reg)

	s.IncCounter("dispatcher_jobs_total", map[string]string{"result": "ok"})
	s.IncCounter("dispatcher_jobs_total", map[string]string{"result": "ok"})
	s.IncCounter("dispatcher_jobs_total", map[string]string{"result": "failed"})

	families, err := reg.Gather()
	require.NoError(t, err)

	var metric *dto.Metric
	for _, f := range families {
		if f.GetName() == "payment_gateway_dispatcher_jobs_total" {
			for _, m := range f.Metric {
				if m.Counter.GetValue() == 2 {
					metric = m
				}
			}
		}
	}
	require.NotNil(t, metric, "expected a counter series with value 2")
}

func TestPrometheusSink_SetGauge_Overwrites(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(reg)

	s.SetGauge("queue_depth", 5, map[string]string{"queue": "webhook"})
	s.SetGauge("queue_depth", 9, map[string]string{"queue": "webhook"})

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() != "payment_gateway_queue_depth" {
			continue
		}
		for _, m := range f.Metric {
			assert.Equal(t, float64(9), m.Gauge.GetValue())
			found = true
		}
	}
	assert.True(t, found)
}

func TestPrometheusSink_ObserveHistogram_RecordsSample(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(reg)

	s.ObserveHistogram("lock_wait_seconds", 0.25, map[string]string{"op": "acquire"})

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() != "payment_gateway_lock_wait_seconds" {
			continue
		}
		for _, m := range f.Metric {
			assert.Equal(t, uint64(1), m.Histogram.GetSampleCount())
			found = true
		}
	}
	assert.True(t, found)
}

func TestNoopSink_NeverPanics(t *testing.T) {
	var s NoopSink
	s.IncCounter("x", nil)
	s.ObserveHistogram("x", 1, nil)
	s.SetGauge("x", 1, nil)
}

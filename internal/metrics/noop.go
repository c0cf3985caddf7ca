package metrics

// NoopSink discards every observation. Used where a MetricsSink is
// required by a constructor but metrics collection is not wired,
// e.g. unit tests.
type NoopSink struct{}

func (NoopSink) IncCounter(string, map[string]string)                {}
func (NoopSink) ObserveHistogram(string, float64, map[string]string) {}
func (NoopSink) SetGauge(string, float64, map[string]string)         {}

package viewer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports controller activity as Prometheus metrics. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	lines           prometheus.Counter
	samples         prometheus.Counter
	invalid         prometheus.Counter
	alarms          prometheus.Counter
	transportErrors prometheus.Counter
	lastValue       prometheus.Gauge
	seriesLen       prometheus.Gauge
	open            prometheus.Gauge
	lineLatency     prometheus.Histogram
}

// NewMetrics creates the viewer metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serialscope_lines_total",
			Help: "Raw lines received from the source.",
		}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serialscope_samples_total",
			Help: "Numeric samples parsed and appended to the series.",
		}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serialscope_invalid_segments_total",
			Help: "Line segments that failed numeric conversion.",
		}),
		alarms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serialscope_alarms_total",
			Help: "Threshold alarms fired after debouncing.",
		}),
		transportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serialscope_transport_errors_total",
			Help: "Errors reported by the serial transport.",
		}),
		lastValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "serialscope_last_value",
			Help: "Most recent parsed sample value.",
		}),
		seriesLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "serialscope_series_length",
			Help: "Samples currently held in the rolling series.",
		}),
		open: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "serialscope_session_open",
			Help: "1 while a port session is open.",
		}),
		lineLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "serialscope_line_processing_seconds",
			Help:    "Time spent parsing and applying one line.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 12),
		}),
	}

	reg.MustRegister(
		m.lines, m.samples, m.invalid, m.alarms, m.transportErrors,
		m.lastValue, m.seriesLen, m.open, m.lineLatency,
	)
	return m
}

func (m *Metrics) incLines() {
	if m != nil {
		m.lines.Inc()
	}
}

func (m *Metrics) incSamples(v float64) {
	if m != nil {
		m.samples.Inc()
		m.lastValue.Set(v)
	}
}

func (m *Metrics) incInvalid() {
	if m != nil {
		m.invalid.Inc()
	}
}

func (m *Metrics) incAlarms() {
	if m != nil {
		m.alarms.Inc()
	}
}

func (m *Metrics) incTransportErrors() {
	if m != nil {
		m.transportErrors.Inc()
	}
}

func (m *Metrics) setSeriesLen(n int) {
	if m != nil {
		m.seriesLen.Set(float64(n))
	}
}

func (m *Metrics) setOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.open.Set(1)
	} else {
		m.open.Set(0)
	}
}

func (m *Metrics) observeLine(d time.Duration) {
	if m != nil {
		m.lineLatency.Observe(d.Seconds())
	}
}

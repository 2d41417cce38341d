// Package monitoring exposes Prometheus metrics for the demographics pipeline
// and runs periodic upstream health checks that alert through a webhook.
package monitoring

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Adapter call outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

// Cache lookup results.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheError  = "error"
	CacheBypass = "bypass"
)

// Metrics records adapter, cache and report quality metrics. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	adapterCalls    *prometheus.CounterVec
	adapterDuration *prometheus.HistogramVec
	fallbacks       *prometheus.CounterVec
	confidence      prometheus.Histogram
	cacheLookups    *prometheus.CounterVec

	// Running totals read by Collector.
	calls     atomic.Int64
	failures  atomic.Int64
	estimates atomic.Int64
}

// NewMetrics registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		adapterCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_adapter_calls_total",
			Help: "Adapter calls made while generating reports, by outcome.",
		}, []string{"adapter", "outcome"}),
		adapterDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "demographics_adapter_duration_seconds",
			Help:    "Adapter call latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"adapter"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_fallbacks_total",
			Help: "Times static estimates replaced live data, by source and reason.",
		}, []string{"source", "reason"}),
		confidence: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "demographics_report_confidence",
			Help:    "Confidence score of generated reports.",
			Buckets: []float64{0, 15, 30, 40, 55, 70, 85, 100},
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_cache_lookups_total",
			Help: "Report cache lookups by result.",
		}, []string{"result"}),
	}
}

// ObserveAdapter records one adapter call.
func (m *Metrics) ObserveAdapter(adapter, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.adapterCalls.WithLabelValues(adapter, outcome).Inc()
	m.adapterDuration.WithLabelValues(adapter).Observe(d.Seconds())
	m.calls.Add(1)
	if outcome != OutcomeOK {
		m.failures.Add(1)
	}
}

// Fallback records that source served static estimates.
func (m *Metrics) Fallback(source, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(source, reason).Inc()
	m.estimates.Add(1)
}

// ObserveConfidence records a generated report's confidence score.
func (m *Metrics) ObserveConfidence(confidence int) {
	if m == nil {
		return
	}
	m.confidence.Observe(float64(confidence))
}

// CacheLookup records a report cache lookup.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

type totals struct {
	calls, failures, estimates int64
}

func (m *Metrics) totals() totals {
	if m == nil {
		return totals{}
	}
	return totals{
		calls:     m.calls.Load(),
		failures:  m.failures.Load(),
		estimates: m.estimates.Load(),
	}
}

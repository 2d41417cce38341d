package monitoring

import (
	"sort"
	"sync"
	"time"
)

// Snapshot is the pipeline's health over the window since the previous
// collection.
type Snapshot struct {
	AdapterCalls    int64     `json:"adapter_calls"`
	AdapterFailures int64     `json:"adapter_failures"`
	FailureRate     float64   `json:"failure_rate"`
	Fallbacks       int64     `json:"fallbacks"`
	OpenCircuits    []string  `json:"open_circuits,omitempty"`
	WindowStart     time.Time `json:"window_start"`
	CollectedAt     time.Time `json:"collected_at"`
}

// CircuitReporter reports circuit breaker states by upstream.
// resilience.Breakers satisfies it.
type CircuitReporter interface {
	States() map[string]string
}

// Collector turns the running totals in Metrics into windowed snapshots.
type Collector struct {
	metrics  *Metrics
	circuits CircuitReporter

	mu     sync.Mutex
	last   totals
	lastAt time.Time
	now    func() time.Time
}

// NewCollector creates a collector. circuits may be nil.
func NewCollector(m *Metrics, circuits CircuitReporter) *Collector {
	return &Collector{
		metrics:  m,
		circuits: circuits,
		last:     m.totals(),
		lastAt:   time.Now().UTC(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Collect returns the snapshot for the window since the previous call and
// starts a new window.
func (c *Collector) Collect() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.metrics.totals()
	now := c.now()
	snap := &Snapshot{
		AdapterCalls:    cur.calls - c.last.calls,
		AdapterFailures: cur.failures - c.last.failures,
		Fallbacks:       cur.estimates - c.last.estimates,
		WindowStart:     c.lastAt,
		CollectedAt:     now,
	}
	if snap.AdapterCalls > 0 {
		snap.FailureRate = float64(snap.AdapterFailures) / float64(snap.AdapterCalls)
	}

	if c.circuits != nil {
		for upstream, state := range c.circuits.States() {
			if state == "open" {
				snap.OpenCircuits = append(snap.OpenCircuits, upstream)
			}
		}
		sort.Strings(snap.OpenCircuits)
	}

	c.last = cur
	c.lastAt = now
	return snap
}

package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCircuits map[string]string

func (s stubCircuits) States() map[string]string { return s }

func TestCollector_Window(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveAdapter("census", OutcomeOK, time.Millisecond)

	c := NewCollector(m, nil)
	m.ObserveAdapter("census", OutcomeOK, time.Millisecond)
	m.ObserveAdapter("census", OutcomeOK, time.Millisecond)
	m.ObserveAdapter("employment", OutcomeError, time.Millisecond)
	m.ObserveAdapter("k12", OutcomeTimeout, time.Millisecond)
	m.Fallback("employment", "upstream_error")

	snap := c.Collect()
	assert.Equal(t, int64(4), snap.AdapterCalls, "calls before the collector existed are excluded")
	assert.Equal(t, int64(2), snap.AdapterFailures)
	assert.InDelta(t, 0.5, snap.FailureRate, 0.0001)
	assert.Equal(t, int64(1), snap.Fallbacks)
	assert.Empty(t, snap.OpenCircuits)

	next := c.Collect()
	assert.Zero(t, next.AdapterCalls)
	assert.Zero(t, next.FailureRate)
	assert.Equal(t, snap.CollectedAt, next.WindowStart)
}

func TestCollector_OpenCircuits(t *testing.T) {
	c := NewCollector(nil, stubCircuits{
		"census_acs": "closed",
		"bls":        "open",
		"ccd":        "open",
		"scorecard":  "half-open",
	})
	snap := c.Collect()
	require.Equal(t, []string{"bls", "ccd"}, snap.OpenCircuits)
}

func TestCollector_NilMetrics(t *testing.T) {
	snap := NewCollector(nil, nil).Collect()
	assert.Zero(t, snap.AdapterCalls)
}

package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/config"
)

func TestChecker_RunStopsOnCancel(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	checker := NewChecker(NewCollector(m, nil), NewAlerter(config.MonitoringConfig{}), config.MonitoringConfig{
		CheckIntervalSecs: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Checker.Run did not stop after context cancellation")
	}
}

func TestChecker_DefaultInterval(t *testing.T) {
	checker := NewChecker(NewCollector(nil, nil), NewAlerter(config.MonitoringConfig{}), config.MonitoringConfig{})
	assert.NotNil(t, checker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	checker.Run(ctx)
}

func TestChecker_CheckSendsAlerts(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	cfg := config.MonitoringConfig{WebhookURL: ts.URL, FailureRateThreshold: 0.2}
	m := NewMetrics(prometheus.NewRegistry())
	checker := NewChecker(NewCollector(m, stubCircuits{"bls": "open"}), NewAlerter(cfg), cfg)

	for range 5 {
		m.ObserveAdapter("employment", OutcomeTimeout, time.Second)
	}

	n := checker.check(context.Background(), zap.NewNop())
	assert.Equal(t, 2, n)
	assert.Equal(t, int32(2), received.Load())

	assert.Equal(t, 1, checker.check(context.Background(), zap.NewNop()), "failure window resets, the open circuit is reported again")
}

package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/config"
)

func window(calls, failures, fallbacks int64) *Snapshot {
	end := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Snapshot{
		AdapterCalls:    calls,
		AdapterFailures: failures,
		Fallbacks:       fallbacks,
		WindowStart:     end.Add(-5 * time.Minute),
		CollectedAt:     end,
	}
	if calls > 0 {
		s.FailureRate = float64(failures) / float64(calls)
	}
	return s
}

func TestAlerter_Evaluate_NoAlerts(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{FailureRateThreshold: 0.25, FallbackRateThreshold: 0.5})
	assert.Empty(t, a.Evaluate(window(100, 5, 10)))
}

func TestAlerter_Evaluate_FailureRate(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{FailureRateThreshold: 0.25})

	alerts := a.Evaluate(window(20, 8, 0))
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertAdapterFailureRate, alerts[0].Type)
	assert.Equal(t, "high", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "40.0%")
	assert.Contains(t, alerts[0].Message, "5m0s")
}

func TestAlerter_Evaluate_MinimumCallsRequired(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{FailureRateThreshold: 0.1, FallbackRateThreshold: 0.1})
	assert.Empty(t, a.Evaluate(window(3, 3, 3)))
}

func TestAlerter_Evaluate_CircuitOpen(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})
	snap := window(0, 0, 0)
	snap.OpenCircuits = []string{"bls", "census_acs"}

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 2)
	assert.Equal(t, AlertCircuitOpen, alerts[0].Type)
	assert.Equal(t, "bls", alerts[0].Details["upstream"])
	assert.Contains(t, alerts[1].Message, "census_acs")
}

func TestAlerter_Evaluate_FallbackRate(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{FallbackRateThreshold: 0.3})

	alerts := a.Evaluate(window(10, 0, 6))
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertFallbackRate, alerts[0].Type)
	assert.Equal(t, "medium", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "6 of 10")
}

func TestAlerter_Evaluate_DisabledThresholds(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})
	assert.Empty(t, a.Evaluate(window(50, 50, 50)))
}

func TestAlerter_SendAlerts_Webhook(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var alert Alert
		err := json.NewDecoder(r.Body).Decode(&alert)
		require.NoError(t, err)
		assert.NotEmpty(t, alert.Type)
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a := NewAlerter(config.MonitoringConfig{WebhookURL: ts.URL})
	sent := a.SendAlerts(context.Background(), []Alert{
		{Type: AlertAdapterFailureRate, Severity: "high", Message: "test alert 1"},
		{Type: AlertCircuitOpen, Severity: "high", Message: "test alert 2"},
	})
	assert.Equal(t, 2, sent)
	assert.Equal(t, int32(2), received.Load())
}

func TestAlerter_SendAlerts_EmptyURL(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})
	sent := a.SendAlerts(context.Background(), []Alert{{Type: AlertCircuitOpen, Message: "test"}})
	assert.Equal(t, 0, sent)
}

func TestAlerter_SendAlerts_EmptyAlerts(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{WebhookURL: "http://example.com"})
	assert.Equal(t, 0, a.SendAlerts(context.Background(), nil))
}

func TestAlerter_SendAlerts_WebhookError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	a := NewAlerter(config.MonitoringConfig{WebhookURL: ts.URL})
	sent := a.SendAlerts(context.Background(), []Alert{{Type: AlertFallbackRate, Message: "test"}})
	assert.Equal(t, 0, sent)
}

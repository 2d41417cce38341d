package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertAdapterFailureRate AlertType = "adapter_failure_rate"
	AlertCircuitOpen        AlertType = "circuit_open"
	AlertFallbackRate       AlertType = "fallback_rate"
)

// minWindowCalls is the number of adapter calls a window needs before rate
// alerts are evaluated.
const minWindowCalls = 5

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a Snapshot against configured thresholds and sends alerts
// via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *Snapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()
	window := snap.CollectedAt.Sub(snap.WindowStart).Round(time.Second)

	if snap.AdapterCalls >= minWindowCalls && a.cfg.FailureRateThreshold > 0 &&
		snap.FailureRate > a.cfg.FailureRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertAdapterFailureRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Adapter failure rate %.1f%% exceeds threshold %.1f%% (%d failed / %d calls in last %s)",
				snap.FailureRate*100, a.cfg.FailureRateThreshold*100,
				snap.AdapterFailures, snap.AdapterCalls, window,
			),
			Details: map[string]any{
				"failure_rate": snap.FailureRate,
				"threshold":    a.cfg.FailureRateThreshold,
				"failed":       snap.AdapterFailures,
				"calls":        snap.AdapterCalls,
			},
			Timestamp: now,
		})
	}

	for _, upstream := range snap.OpenCircuits {
		alerts = append(alerts, Alert{
			Type:      AlertCircuitOpen,
			Severity:  "high",
			Message:   fmt.Sprintf("Circuit breaker for %s is open; requests are served from fallback data", upstream),
			Details:   map[string]any{"upstream": upstream},
			Timestamp: now,
		})
	}

	if snap.AdapterCalls >= minWindowCalls && a.cfg.FallbackRateThreshold > 0 {
		rate := float64(snap.Fallbacks) / float64(snap.AdapterCalls)
		if rate > a.cfg.FallbackRateThreshold {
			alerts = append(alerts, Alert{
				Type:     AlertFallbackRate,
				Severity: "medium",
				Message: fmt.Sprintf(
					"%d of %d adapter calls used estimated data in last %s",
					snap.Fallbacks, snap.AdapterCalls, window,
				),
				Details: map[string]any{
					"fallbacks": snap.Fallbacks,
					"calls":     snap.AdapterCalls,
					"threshold": a.cfg.FallbackRateThreshold,
				},
				Timestamp: now,
			})
		}
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}

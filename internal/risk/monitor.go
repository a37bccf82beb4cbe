// Package risk runs the periodic heartbeat and drawdown check. The monitor
// is advisory: it logs, flips a gauge, and notifies, but never halts
// detection or execution.
package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/instrumentation"
	"github.com/arbworks/crossbook/internal/notify"
	"github.com/arbworks/crossbook/internal/position"
)

// MonitorConfig holds the monitor's tunable parameters.
type MonitorConfig struct {
	// Interval is the heartbeat cadence.
	Interval time.Duration
	// MaxDailyLossCents is the loss ceiling. A cumulative loss strictly
	// greater than this trips the advisory circuit breaker.
	MaxDailyLossCents int64
	// AlertThrottle suppresses repeat breach notifications within the
	// window. The log line and gauge are re-asserted every cycle
	// regardless.
	AlertThrottle time.Duration
}

// Monitor logs a P&L heartbeat on every tick and re-evaluates the loss
// ceiling. Breaches are re-asserted each cycle for as long as they hold.
type Monitor struct {
	cfg      MonitorConfig
	tracker  *position.Tracker
	bus      domain.SignalBus // optional
	notifier *notify.Notifier // optional
	metrics  *instrumentation.Metrics
	logger   *slog.Logger

	throttle *alertThrottle
	now      func() time.Time
}

// NewMonitor wires a Monitor. bus and notifier may be nil.
func NewMonitor(
	cfg MonitorConfig,
	tracker *position.Tracker,
	bus domain.SignalBus,
	notifier *notify.Notifier,
	metrics *instrumentation.Metrics,
	logger *slog.Logger,
) *Monitor {
	if cfg.AlertThrottle <= 0 {
		cfg.AlertThrottle = 15 * time.Minute
	}
	return &Monitor{
		cfg:      cfg,
		tracker:  tracker,
		bus:      bus,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "risk_monitor")),
		throttle: newAlertThrottle(cfg.AlertThrottle),
		now:      time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.InfoContext(ctx, "risk monitor started",
		slog.Duration("interval", m.cfg.Interval),
		slog.Int64("max_daily_loss_cents", m.cfg.MaxDailyLossCents),
	)
	defer m.logger.Info("risk monitor stopped")

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.CheckOnce(ctx)
		}
	}
}

// CheckOnce emits one heartbeat and evaluates the loss ceiling. Exported for
// tests.
func (m *Monitor) CheckOnce(ctx context.Context) {
	pnl := m.tracker.TotalPnL()
	m.logger.InfoContext(ctx, m.tracker.Summary())

	loss := -pnl
	if loss > m.cfg.MaxDailyLossCents {
		m.metrics.RiskBreached.Set(1)
		m.logger.WarnContext(ctx, "daily loss limit exceeded, new trades should be halted",
			slog.Int64("loss_cents", loss),
			slog.Int64("max_daily_loss_cents", m.cfg.MaxDailyLossCents),
		)
		m.alert(ctx, loss)
		return
	}
	m.metrics.RiskBreached.Set(0)
}

func (m *Monitor) alert(ctx context.Context, lossCents int64) {
	payload, err := json.Marshal(map[string]any{
		"event":                domain.EventRiskAlert,
		"loss_cents":           lossCents,
		"max_daily_loss_cents": m.cfg.MaxDailyLossCents,
		"at":                   m.now().UTC(),
	})
	if err == nil && m.bus != nil {
		if err := m.bus.Publish(ctx, "risk", payload); err != nil {
			m.logger.WarnContext(ctx, "publish risk event failed",
				slog.String("error", err.Error()))
		}
	}

	if m.notifier == nil || !m.throttle.allow("daily_loss", m.now()) {
		return
	}
	title := "Risk alert: daily loss limit exceeded"
	msg := fmt.Sprintf("Loss $%.2f exceeds limit $%.2f. %s",
		float64(lossCents)/100.0, float64(m.cfg.MaxDailyLossCents)/100.0, m.tracker.Summary())
	if err := m.notifier.Notify(ctx, domain.EventRiskAlert, title, msg); err != nil {
		m.logger.WarnContext(ctx, "risk notification failed",
			slog.String("error", err.Error()))
	}
}

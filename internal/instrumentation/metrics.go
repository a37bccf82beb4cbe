// Package instrumentation exposes Prometheus metrics for the bot's feed,
// detection, execution, and risk paths.
package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains every Prometheus metric the bot records. Metrics are
// registered on the registry passed to NewMetrics so tests can build
// isolated instances.
type Metrics struct {
	BookUpdatesTotal      *prometheus.CounterVec
	FeedReconnectsTotal   *prometheus.CounterVec
	ScansTotal            prometheus.Counter
	OpportunitiesTotal    prometheus.Counter
	AdmissionRejectsTotal prometheus.Counter
	TradesTotal           prometheus.Counter
	PnLCents              prometheus.Gauge
	RiskBreached          prometheus.Gauge
}

// NewMetrics creates and registers all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookUpdatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crossbook_book_updates_total",
			Help: "Orderbook updates applied to the market store, by venue",
		}, []string{"venue"}),

		FeedReconnectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crossbook_feed_reconnects_total",
			Help: "Feed connection restarts, by venue",
		}, []string{"venue"}),

		ScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossbook_scans_total",
			Help: "Detection cycles completed",
		}),

		OpportunitiesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossbook_opportunities_total",
			Help: "Arbitrage opportunities detected before admission",
		}),

		AdmissionRejectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossbook_admission_rejects_total",
			Help: "Opportunities dropped by the position-limit admission check",
		}),

		TradesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossbook_trades_total",
			Help: "Simulated trades recorded by the execution stage",
		}),

		PnLCents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "crossbook_pnl_cents",
			Help: "Cumulative realized P&L in cents (signed)",
		}),

		RiskBreached: factory.NewGauge(prometheus.GaugeOpts{
			Name: "crossbook_risk_breached",
			Help: "1 while cumulative loss exceeds the configured ceiling",
		}),
	}
}

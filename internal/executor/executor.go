// Package executor drains the opportunity queue and turns each opportunity
// into a recorded trade. The default mode is simulation: no orders leave the
// process, the trade is booked against the position tracker at the detected
// profit, and the fill is logged and announced.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/arbworks/crossbook/internal/arb"
	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/instrumentation"
	"github.com/arbworks/crossbook/internal/notify"
)

// Mode selects how admitted opportunities are handled.
type Mode string

const (
	// ModeSimulate books trades locally without placing orders.
	ModeSimulate Mode = "simulate"
	// ModeLive is reserved for real order placement. It is not implemented;
	// opportunities are logged and skipped.
	ModeLive Mode = "live"
)

// TradeRecorder books a completed trade. Implemented by position.Tracker.
type TradeRecorder interface {
	RecordTrade(marketID string, profitCents int16)
	TotalPnL() int64
	TradeCount() uint64
}

// Executor consumes opportunities from the queue one at a time and records
// them. Serial consumption keeps the tracker's trade log in detection order.
type Executor struct {
	mode     Mode
	queue    *arb.Queue
	recorder TradeRecorder
	bus      domain.SignalBus // optional
	notifier *notify.Notifier // optional
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// NewExecutor wires an Executor. bus and notifier may be nil.
func NewExecutor(
	mode Mode,
	queue *arb.Queue,
	recorder TradeRecorder,
	bus domain.SignalBus,
	notifier *notify.Notifier,
	metrics *instrumentation.Metrics,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		mode:     mode,
		queue:    queue,
		recorder: recorder,
		bus:      bus,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "executor")),
	}
}

// Run consumes the queue until ctx is cancelled or the queue is closed and
// drained.
func (e *Executor) Run(ctx context.Context) error {
	e.logger.InfoContext(ctx, "executor started", slog.String("mode", string(e.mode)))
	defer e.logger.Info("executor stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case opp, ok := <-e.queue.Recv():
			if !ok {
				return nil
			}
			e.Execute(ctx, opp)
		}
	}
}

// Execute handles a single opportunity. Exported for tests.
func (e *Executor) Execute(ctx context.Context, opp domain.ArbOpportunity) {
	if e.mode == ModeLive {
		e.logger.WarnContext(ctx, "live trading not implemented, skipping opportunity",
			slog.String("opportunity_id", opp.ID),
			slog.String("market_id", opp.MarketID),
		)
		return
	}

	e.recorder.RecordTrade(opp.MarketID, opp.ProfitCents)
	e.metrics.TradesTotal.Inc()
	e.metrics.PnLCents.Set(float64(e.recorder.TotalPnL()))

	e.logger.InfoContext(ctx, "arbitrage executed (dry run)",
		slog.String("opportunity_id", opp.ID),
		slog.String("market_id", opp.MarketID),
		slog.String("description", opp.Description),
		slog.String("strategy", opp.ArbType.String()),
		slog.Int("yes_cents", int(opp.YesPrice)),
		slog.Int("no_cents", int(opp.NoPrice)),
		slog.Int("fee_cents", int(opp.Fee)),
		slog.Int("total_cost_cents", int(opp.TotalCost)),
		slog.Int("profit_cents", int(opp.ProfitCents)),
		slog.String("profit_pct", fmt.Sprintf("%.1f%%", opp.ProfitPct())),
	)

	e.publishTrade(ctx, opp)
	e.notifyTrade(ctx, opp)
}

func (e *Executor) publishTrade(ctx context.Context, opp domain.ArbOpportunity) {
	if e.bus == nil {
		return
	}
	ev := domain.TradeEvent{
		Event:       domain.EventTradeRecorded,
		MarketID:    opp.MarketID,
		ArbType:     opp.ArbType.String(),
		ProfitCents: opp.ProfitCents,
		TotalPnL:    e.recorder.TotalPnL(),
		TradeCount:  e.recorder.TradeCount(),
		RecordedAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := e.bus.Publish(ctx, "trades", payload); err != nil {
		e.logger.WarnContext(ctx, "publish trade event failed",
			slog.String("error", err.Error()))
	}
	if err := e.bus.StreamAppend(ctx, "stream:trades", payload); err != nil {
		e.logger.WarnContext(ctx, "append trade stream failed",
			slog.String("error", err.Error()))
	}
}

func (e *Executor) notifyTrade(ctx context.Context, opp domain.ArbOpportunity) {
	if e.notifier == nil {
		return
	}
	title := fmt.Sprintf("Trade recorded: %s", opp.Description)
	msg := fmt.Sprintf("%s | cost %dc (fee %dc) | profit %dc (%.1f%%)",
		opp.ArbType, opp.TotalCost, opp.Fee, opp.ProfitCents, opp.ProfitPct())
	if err := e.notifier.Notify(ctx, domain.EventTradeRecorded, title, msg); err != nil {
		e.logger.WarnContext(ctx, "trade notification failed",
			slog.String("error", err.Error()))
	}
}

// Package arb implements the periodic arbitrage scan: for every tracked
// market it evaluates the four YES+NO hedge combinations across and within
// venues, applies the Kalshi fee model, and hands the best qualifying
// combination to the execution stage through an unbounded FIFO queue.
package arb

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/instrumentation"
	"github.com/arbworks/crossbook/internal/market"
	"github.com/arbworks/crossbook/internal/position"
	"github.com/arbworks/crossbook/internal/pricing"
)

// DetectorConfig holds the detector's tunable parameters.
type DetectorConfig struct {
	// ScanInterval is the fixed cadence between full catalog scans.
	ScanInterval time.Duration
	// ThresholdCents is the guaranteed payout a combination must undercut.
	ThresholdCents domain.PriceCents
	// MaxPositionSize caps open contract-pairs per market for admission.
	MaxPositionSize uint16
}

// Detector periodically scans the market store, detects at most one
// opportunity per market per cycle, performs the admission check against
// the position tracker, and publishes admitted opportunities.
type Detector struct {
	cfg     DetectorConfig
	store   *market.Store
	tracker *position.Tracker
	queue   *Queue
	bus     domain.SignalBus // optional
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewDetector wires a Detector. bus may be nil when Redis is not
// configured.
func NewDetector(
	cfg DetectorConfig,
	store *market.Store,
	tracker *position.Tracker,
	queue *Queue,
	bus domain.SignalBus,
	metrics *instrumentation.Metrics,
	logger *slog.Logger,
) *Detector {
	return &Detector{
		cfg:     cfg,
		store:   store,
		tracker: tracker,
		queue:   queue,
		bus:     bus,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "arb_detector")),
	}
}

// Run scans on the configured cadence until ctx is cancelled.
func (d *Detector) Run(ctx context.Context) error {
	d.logger.InfoContext(ctx, "arb detector started",
		slog.Duration("scan_interval", d.cfg.ScanInterval),
		slog.Int("markets", d.store.Len()),
	)
	defer d.logger.Info("arb detector stopped")

	ticker := time.NewTicker(d.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.ScanOnce(ctx)
		}
	}
}

// ScanOnce evaluates every market once. Exported for tests and for the
// pipeline-style one-shot trigger.
func (d *Detector) ScanOnce(ctx context.Context) {
	d.metrics.ScansTotal.Inc()
	for _, st := range d.store.All() {
		opp, ok := Detect(st, d.cfg.ThresholdCents)
		if !ok {
			continue
		}
		d.metrics.OpportunitiesTotal.Inc()

		if !d.tracker.CanTrade(st.Pair.ID, d.cfg.MaxPositionSize) {
			d.metrics.AdmissionRejectsTotal.Inc()
			d.logger.WarnContext(ctx, "position limit reached, dropping opportunity",
				slog.String("market_id", st.Pair.ID),
				slog.String("description", st.Pair.Description),
				slog.Int("profit_cents", int(opp.ProfitCents)),
			)
			continue
		}

		d.queue.Publish(opp)
		d.publishEvent(ctx, opp)
	}
}

// publishEvent mirrors the opportunity onto the signal bus for dashboards.
// Bus failures are logged and never affect detection.
func (d *Detector) publishEvent(ctx context.Context, opp domain.ArbOpportunity) {
	if d.bus == nil {
		return
	}
	ev := domain.OpportunityEvent{
		Event:       domain.EventArbDetected,
		ID:          opp.ID,
		MarketID:    opp.MarketID,
		ArbType:     opp.ArbType.String(),
		YesPrice:    opp.YesPrice,
		NoPrice:     opp.NoPrice,
		TotalCost:   opp.TotalCost,
		Fee:         opp.Fee,
		ProfitCents: opp.ProfitCents,
		DetectedAt:  opp.DetectedAt,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := d.bus.Publish(ctx, "opportunities", payload); err != nil {
		d.logger.WarnContext(ctx, "publish opportunity event failed",
			slog.String("error", err.Error()))
	}
	if err := d.bus.StreamAppend(ctx, "stream:opportunities", payload); err != nil {
		d.logger.WarnContext(ctx, "append opportunity stream failed",
			slog.String("error", err.Error()))
	}
}

// combo is one hedge combination candidate before cost evaluation.
type combo struct {
	arbType  domain.ArbType
	yesPrice domain.PriceCents
	noPrice  domain.PriceCents
	fee      domain.PriceCents
}

// Detect evaluates the four hedge combinations for a single market and
// returns the most profitable one below threshold, or ok=false when no
// combination qualifies or any of the four prices is missing.
//
// Combinations are evaluated in a fixed order and the winner comparison is
// strictly-greater, so the earliest combination wins profit ties.
func Detect(st *market.State, threshold domain.PriceCents) (domain.ArbOpportunity, bool) {
	kalshi := st.Kalshi.Snapshot()
	poly := st.Poly.Snapshot()

	kYes, kNo := kalshi.YesAsk, kalshi.NoAsk
	pYes, pNo := poly.YesAsk, poly.NoAsk

	// A single missing quote suppresses the whole market for this cycle.
	if kYes == domain.NoPrice || kNo == domain.NoPrice ||
		pYes == domain.NoPrice || pNo == domain.NoPrice {
		return domain.ArbOpportunity{}, false
	}

	combos := [4]combo{
		{domain.ArbPolyYesKalshiNo, pYes, kNo, pricing.KalshiFeeCents(kNo)},
		{domain.ArbKalshiYesPolyNo, kYes, pNo, pricing.KalshiFeeCents(kYes)},
		{domain.ArbPolyOnly, pYes, pNo, 0},
		{domain.ArbKalshiOnly, kYes, kNo, pricing.KalshiFeeCents(kYes) + pricing.KalshiFeeCents(kNo)},
	}

	var best domain.ArbOpportunity
	found := false
	for _, c := range combos {
		totalCost := c.yesPrice + c.noPrice + c.fee
		if totalCost >= threshold {
			continue
		}
		profit := int16(threshold) - int16(totalCost)
		if !found || profit > best.ProfitCents {
			best = domain.ArbOpportunity{
				ID:          uuid.New().String(),
				MarketID:    st.Pair.ID,
				Description: st.Pair.Description,
				ArbType:     c.arbType,
				YesPrice:    c.yesPrice,
				NoPrice:     c.noPrice,
				TotalCost:   totalCost,
				Fee:         c.fee,
				ProfitCents: profit,
				DetectedAt:  time.Now().UTC(),
			}
			found = true
		}
	}
	return best, found
}

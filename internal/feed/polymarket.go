package feed

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/instrumentation"
	"github.com/arbworks/crossbook/internal/market"
	"github.com/arbworks/crossbook/internal/platform/polymarket"
	"github.com/arbworks/crossbook/internal/pricing"
)

// PolymarketIngestor supervises the Polymarket book feed. Each book message
// covers a single outcome token, so updates touch only one side of the
// market's Polymarket book.
type PolymarketIngestor struct {
	wsURL          string
	reconnectDelay time.Duration
	store          *market.Store
	cache          domain.QuoteCache // optional
	metrics        *instrumentation.Metrics
	logger         *slog.Logger
}

// NewPolymarketIngestor wires a PolymarketIngestor. cache may be nil.
func NewPolymarketIngestor(
	wsURL string,
	reconnectDelay time.Duration,
	store *market.Store,
	cache domain.QuoteCache,
	metrics *instrumentation.Metrics,
	logger *slog.Logger,
) *PolymarketIngestor {
	return &PolymarketIngestor{
		wsURL:          wsURL,
		reconnectDelay: reconnectDelay,
		store:          store,
		cache:          cache,
		metrics:        metrics,
		logger:         logger.With(slog.String("component", "polymarket_feed")),
	}
}

// Run connects, subscribes, and consumes until ctx is cancelled. Any
// connection failure is logged and retried after the fixed delay with no
// retry cap.
func (p *PolymarketIngestor) Run(ctx context.Context) error {
	for {
		err := p.runConnection(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p.metrics.FeedReconnectsTotal.WithLabelValues("polymarket").Inc()
		p.logger.WarnContext(ctx, "feed disconnected, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("delay", p.reconnectDelay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.reconnectDelay):
		}
	}
}

// runConnection drives one connection from dial to terminal error.
func (p *PolymarketIngestor) runConnection(ctx context.Context) error {
	client := polymarket.NewWSClient(p.wsURL)
	client.OnBook(func(msg polymarket.BookMessage) {
		p.applyBook(ctx, msg)
	})

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	tokens := p.store.PolyTokenIDs()
	if err := client.Subscribe(ctx, tokens); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "feed connected",
		slog.String("url", p.wsURL),
		slog.Int("tokens", len(tokens)),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-client.Done():
		return err
	}
}

// applyBook routes one book snapshot to its market side. Unknown tokens are
// dropped without logging; an empty or unparseable ask decodes to the
// "no quote" sentinel.
func (p *PolymarketIngestor) applyBook(ctx context.Context, msg polymarket.BookMessage) {
	st, isYes, ok := p.store.ByPolyToken(msg.TokenID())
	if !ok {
		return
	}

	var ask domain.PriceCents
	var size domain.SizeCents
	if best, has := msg.BestAsk(); has {
		ask = parsePrice(best.Price)
		size = parseDollarSize(best.Size)
	}

	if isYes {
		st.Poly.SetYes(ask, size)
	} else {
		st.Poly.SetNo(ask, size)
	}
	p.metrics.BookUpdatesTotal.WithLabelValues("polymarket").Inc()

	if p.cache != nil {
		snap := st.Poly.Snapshot()
		q := domain.Quote{
			YesAsk:    snap.YesAsk,
			NoAsk:     snap.NoAsk,
			YesSize:   snap.YesSize,
			NoSize:    snap.NoSize,
			UpdatedAt: time.Now().UTC(),
		}
		if err := p.cache.SetQuote(ctx, "polymarket", st.Pair.ID, q); err != nil {
			p.logger.DebugContext(ctx, "quote cache write failed",
				slog.String("error", err.Error()))
		}
	}
}

// parsePrice converts a "0.XX" dollar-fraction string to cents. Anything
// unparseable maps to the sentinel.
func parsePrice(s string) domain.PriceCents {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.NoPrice
	}
	return pricing.PriceToCents(f)
}

// parseDollarSize converts a dollar-denominated size string to cents.
func parseDollarSize(s string) domain.SizeCents {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clampSize(int64(f * 100.0))
}

// Package feed runs the per-venue ingestors: each one owns a WebSocket
// client, decodes venue messages into orderbook updates, and applies them to
// the market store. Connection failures restart the feed after a fixed delay,
// forever; the store is unaffected by downtime, stale prices simply persist
// until overwritten.
package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/instrumentation"
	"github.com/arbworks/crossbook/internal/market"
	"github.com/arbworks/crossbook/internal/platform/kalshi"
)

// KalshiIngestor supervises the Kalshi orderbook feed. Kalshi deltas carry
// both sides of the book in one message; absent fields decode to the
// "no quote" sentinel.
type KalshiIngestor struct {
	wsURL          string
	reconnectDelay time.Duration
	store          *market.Store
	cache          domain.QuoteCache // optional
	metrics        *instrumentation.Metrics
	logger         *slog.Logger
}

// NewKalshiIngestor wires a KalshiIngestor. cache may be nil.
func NewKalshiIngestor(
	wsURL string,
	reconnectDelay time.Duration,
	store *market.Store,
	cache domain.QuoteCache,
	metrics *instrumentation.Metrics,
	logger *slog.Logger,
) *KalshiIngestor {
	return &KalshiIngestor{
		wsURL:          wsURL,
		reconnectDelay: reconnectDelay,
		store:          store,
		cache:          cache,
		metrics:        metrics,
		logger:         logger.With(slog.String("component", "kalshi_feed")),
	}
}

// Run connects, subscribes, and consumes until ctx is cancelled. Any
// connection failure is logged and retried after the fixed delay with no
// retry cap.
func (k *KalshiIngestor) Run(ctx context.Context) error {
	for {
		err := k.runConnection(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		k.metrics.FeedReconnectsTotal.WithLabelValues("kalshi").Inc()
		k.logger.WarnContext(ctx, "feed disconnected, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("delay", k.reconnectDelay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(k.reconnectDelay):
		}
	}
}

// runConnection drives one connection from dial to terminal error.
func (k *KalshiIngestor) runConnection(ctx context.Context) error {
	client := kalshi.NewWSClient(k.wsURL)
	client.OnDelta(func(d kalshi.OrderbookDelta) {
		k.applyDelta(ctx, d)
	})

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	tickers := k.store.KalshiTickers()
	if err := client.Subscribe(ctx, tickers); err != nil {
		return err
	}
	k.logger.InfoContext(ctx, "feed connected",
		slog.String("url", k.wsURL),
		slog.Int("tickers", len(tickers)),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-client.Done():
		return err
	}
}

// applyDelta routes one delta to its market. Unknown tickers are dropped
// without logging.
func (k *KalshiIngestor) applyDelta(ctx context.Context, d kalshi.OrderbookDelta) {
	st, ok := k.store.ByKalshiTicker(d.Ticker)
	if !ok {
		return
	}

	yesAsk := clampCents(d.YesAsk)
	noAsk := clampCents(d.NoAsk)
	yesSize := clampSize(d.YesAskSize)
	noSize := clampSize(d.NoAskSize)

	st.Kalshi.Set(yesAsk, noAsk, yesSize, noSize)
	k.metrics.BookUpdatesTotal.WithLabelValues("kalshi").Inc()

	if k.cache != nil {
		q := domain.Quote{
			YesAsk:    yesAsk,
			NoAsk:     noAsk,
			YesSize:   yesSize,
			NoSize:    noSize,
			UpdatedAt: time.Now().UTC(),
		}
		if err := k.cache.SetQuote(ctx, "kalshi", st.Pair.ID, q); err != nil {
			k.logger.DebugContext(ctx, "quote cache write failed",
				slog.String("error", err.Error()))
		}
	}
}

package feed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/instrumentation"
	"github.com/arbworks/crossbook/internal/market"
	"github.com/arbworks/crossbook/internal/platform/kalshi"
	"github.com/arbworks/crossbook/internal/platform/polymarket"
)

func newTestStore(t *testing.T) *market.Store {
	t.Helper()
	store, err := market.NewStore([]domain.MarketPair{{
		ID:           "m1",
		Description:  "Test market",
		KalshiTicker: "KXTEST",
		PolyYesToken: "tok-yes",
		PolyNoToken:  "tok-no",
	}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKalshiApplyDelta(t *testing.T) {
	store := newTestStore(t)
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	ing := NewKalshiIngestor("wss://example", time.Second, store, nil, metrics, discard())

	ing.applyDelta(context.Background(), kalshi.OrderbookDelta{
		Ticker:     "KXTEST",
		YesAsk:     40,
		NoAsk:      55,
		YesAskSize: 1200,
		NoAskSize:  800,
	})

	st, _ := store.ByID("m1")
	snap := st.Kalshi.Snapshot()
	if snap.YesAsk != 40 || snap.NoAsk != 55 {
		t.Fatalf("asks = %d/%d, want 40/55", snap.YesAsk, snap.NoAsk)
	}
	if snap.YesSize != 1200 || snap.NoSize != 800 {
		t.Fatalf("sizes = %d/%d, want 1200/800", snap.YesSize, snap.NoSize)
	}
}

func TestKalshiApplyDeltaMissingFieldsAreSentinel(t *testing.T) {
	store := newTestStore(t)
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	ing := NewKalshiIngestor("wss://example", time.Second, store, nil, metrics, discard())

	// A delta with only the YES side populated zeroes the NO side.
	ing.applyDelta(context.Background(), kalshi.OrderbookDelta{
		Ticker: "KXTEST",
		YesAsk: 40,
	})

	st, _ := store.ByID("m1")
	snap := st.Kalshi.Snapshot()
	if snap.NoAsk != domain.NoPrice {
		t.Fatalf("NoAsk = %d, want sentinel", snap.NoAsk)
	}
}

func TestKalshiApplyDeltaUnknownTickerDropped(t *testing.T) {
	store := newTestStore(t)
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	ing := NewKalshiIngestor("wss://example", time.Second, store, nil, metrics, discard())

	ing.applyDelta(context.Background(), kalshi.OrderbookDelta{
		Ticker: "KXUNKNOWN",
		YesAsk: 40,
		NoAsk:  60,
	})

	st, _ := store.ByID("m1")
	if snap := st.Kalshi.Snapshot(); snap.YesAsk != domain.NoPrice {
		t.Fatal("unknown ticker must not touch any book")
	}
}

func TestPolymarketApplyBookPerToken(t *testing.T) {
	store := newTestStore(t)
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	ing := NewPolymarketIngestor("wss://example", time.Second, store, nil, metrics, discard())

	ing.applyBook(context.Background(), polymarket.BookMessage{
		EventType: "book",
		Market:    "tok-yes",
		Asks:      []polymarket.PriceLevel{{Price: "0.40", Size: "25.00"}},
	})
	ing.applyBook(context.Background(), polymarket.BookMessage{
		EventType: "book",
		Market:    "tok-no",
		Asks:      []polymarket.PriceLevel{{Price: "0.55", Size: "10.50"}},
	})

	st, _ := store.ByID("m1")
	snap := st.Poly.Snapshot()
	if snap.YesAsk != 40 || snap.NoAsk != 55 {
		t.Fatalf("asks = %d/%d, want 40/55", snap.YesAsk, snap.NoAsk)
	}
	if snap.YesSize != 2500 || snap.NoSize != 1050 {
		t.Fatalf("sizes = %d/%d, want 2500/1050", snap.YesSize, snap.NoSize)
	}
}

func TestPolymarketApplyBookEmptyAsksIsSentinel(t *testing.T) {
	store := newTestStore(t)
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	ing := NewPolymarketIngestor("wss://example", time.Second, store, nil, metrics, discard())

	st, _ := store.ByID("m1")
	st.Poly.SetYes(40, 100)

	ing.applyBook(context.Background(), polymarket.BookMessage{
		EventType: "book",
		Market:    "tok-yes",
	})

	if snap := st.Poly.Snapshot(); snap.YesAsk != domain.NoPrice {
		t.Fatalf("YesAsk = %d, want sentinel after empty book", snap.YesAsk)
	}
}

func TestPolymarketApplyBookUnknownTokenDropped(t *testing.T) {
	store := newTestStore(t)
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	ing := NewPolymarketIngestor("wss://example", time.Second, store, nil, metrics, discard())

	ing.applyBook(context.Background(), polymarket.BookMessage{
		EventType: "book",
		Market:    "tok-other",
		Asks:      []polymarket.PriceLevel{{Price: "0.40", Size: "25.00"}},
	})

	st, _ := store.ByID("m1")
	if snap := st.Poly.Snapshot(); snap.YesAsk != domain.NoPrice {
		t.Fatal("unknown token must not touch any book")
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want domain.PriceCents
	}{
		{"0.40", 40},
		{"0.01", 1},
		{"0.99", 99},
		{"0.50", 50},
		{"1.50", 99}, // clamped
		{"garbage", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parsePrice(tc.in); got != tc.want {
			t.Errorf("parsePrice(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClampCents(t *testing.T) {
	cases := []struct {
		in   int64
		want domain.PriceCents
	}{
		{40, 40},
		{1, 1},
		{99, 99},
		{0, 0},
		{100, 0},
		{-5, 0},
		{70000, 0},
	}
	for _, tc := range cases {
		if got := clampCents(tc.in); got != tc.want {
			t.Errorf("clampCents(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

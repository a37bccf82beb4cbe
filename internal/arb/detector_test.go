package arb

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
	"github.com/arbworks/crossbook/internal/position"
)

func testState(t *testing.T) *market.State {
	t.Helper()
	return market.NewState(domain.MarketPair{
		ID:           "lakers-celtics",
		Description:  "Lakers vs Celtics (NBA)",
		MarketType:   domain.MarketTypeMoneyline,
		KalshiTicker: "KXNBAGAME-25JAN15LALCEL-LAL",
		PolyYesToken: "tok-yes",
		PolyNoToken:  "tok-no",
	})
}

func TestDetectSkipsOnMissingPrice(t *testing.T) {
	cases := []struct {
		name                 string
		kYes, kNo, pYes, pNo domain.PriceCents
	}{
		{"all missing", 0, 0, 0, 0},
		{"kalshi yes missing", 0, 60, 40, 60},
		{"kalshi no missing", 40, 0, 40, 60},
		{"poly yes missing", 40, 60, 0, 60},
		{"poly no missing", 40, 60, 40, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := testState(t)
			st.Kalshi.Set(tc.kYes, tc.kNo, 100, 100)
			st.Poly.SetYes(tc.pYes, 100)
			st.Poly.SetNo(tc.pNo, 100)

			if _, ok := Detect(st, domain.SettlementCents); ok {
				t.Fatal("expected no opportunity when a price is missing")
			}
		})
	}
}

// All four prices at 40: the same-venue Polymarket combination is fee-free
// at cost 80 and must beat the cross-venue combinations at cost 82
// (40 + 40 + fee(40)=2).
func TestDetectPrefersFeeFreeCombination(t *testing.T) {
	st := testState(t)
	st.Kalshi.Set(40, 40, 100, 100)
	st.Poly.SetYes(40, 100)
	st.Poly.SetNo(40, 100)

	opp, ok := Detect(st, domain.SettlementCents)
	if !ok {
		t.Fatal("expected an opportunity")
	}
	if opp.ArbType != domain.ArbPolyOnly {
		t.Fatalf("ArbType = %v, want %v", opp.ArbType, domain.ArbPolyOnly)
	}
	if opp.TotalCost != 80 || opp.Fee != 0 || opp.ProfitCents != 20 {
		t.Fatalf("got cost=%d fee=%d profit=%d, want 80/0/20",
			opp.TotalCost, opp.Fee, opp.ProfitCents)
	}
	if opp.MarketID != "lakers-celtics" {
		t.Fatalf("MarketID = %q", opp.MarketID)
	}
}

func TestDetectCrossVenueFee(t *testing.T) {
	// Poly YES at 40, Kalshi NO at 40, with expensive same-venue legs so
	// the cross-venue combination wins: cost = 40 + 40 + fee(40)=2 = 82.
	st := testState(t)
	st.Kalshi.Set(90, 40, 100, 100)
	st.Poly.SetYes(40, 100)
	st.Poly.SetNo(90, 100)

	opp, ok := Detect(st, domain.SettlementCents)
	if !ok {
		t.Fatal("expected an opportunity")
	}
	if opp.ArbType != domain.ArbPolyYesKalshiNo {
		t.Fatalf("ArbType = %v, want %v", opp.ArbType, domain.ArbPolyYesKalshiNo)
	}
	if opp.TotalCost != 82 || opp.Fee != 2 || opp.ProfitCents != 18 {
		t.Fatalf("got cost=%d fee=%d profit=%d, want 82/2/18",
			opp.TotalCost, opp.Fee, opp.ProfitCents)
	}
}

func TestDetectNoOpportunityAtThreshold(t *testing.T) {
	// Every combination sums to exactly 100 or more: nothing qualifies.
	st := testState(t)
	st.Kalshi.Set(50, 50, 100, 100)
	st.Poly.SetYes(50, 100)
	st.Poly.SetNo(50, 100)

	if opp, ok := Detect(st, domain.SettlementCents); ok {
		t.Fatalf("expected no opportunity, got %+v", opp)
	}
}

// Equal profits must resolve to the earliest combination in evaluation
// order. Poly YES 40 + Kalshi NO 38 costs 40+38+fee(38)=2 → 80, the same as
// the fee-free Poly-only 40+40 → 80; combination 1 is evaluated first and
// must win.
func TestDetectTieBreakByEvaluationOrder(t *testing.T) {
	st := testState(t)
	st.Kalshi.Set(90, 38, 100, 100)
	st.Poly.SetYes(40, 100)
	st.Poly.SetNo(40, 100)

	opp, ok := Detect(st, domain.SettlementCents)
	if !ok {
		t.Fatal("expected an opportunity")
	}
	if opp.ProfitCents != 20 {
		t.Fatalf("ProfitCents = %d, want 20", opp.ProfitCents)
	}
	if opp.ArbType != domain.ArbPolyYesKalshiNo {
		t.Fatalf("tie must go to the first combination, got %v", opp.ArbType)
	}
}

func TestDetectKalshiOnlyDoubleFee(t *testing.T) {
	// Only the Kalshi-only combination can qualify: Kalshi 40/40 with fee
	// on both legs costs 40+40+2+2 = 84. Poly legs priced out at 99.
	st := testState(t)
	st.Kalshi.Set(40, 40, 100, 100)
	st.Poly.SetYes(99, 100)
	st.Poly.SetNo(99, 100)

	opp, ok := Detect(st, domain.SettlementCents)
	if !ok {
		t.Fatal("expected an opportunity")
	}
	if opp.ArbType != domain.ArbKalshiOnly {
		t.Fatalf("ArbType = %v, want %v", opp.ArbType, domain.ArbKalshiOnly)
	}
	if opp.TotalCost != 84 || opp.Fee != 4 || opp.ProfitCents != 16 {
		t.Fatalf("got cost=%d fee=%d profit=%d, want 84/4/16",
			opp.TotalCost, opp.Fee, opp.ProfitCents)
	}
}

func newTestDetector(t *testing.T, store *market.Store, tracker *position.Tracker, queue *Queue, maxSize uint16) *Detector {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	return NewDetector(DetectorConfig{
		ScanInterval:    time.Millisecond,
		ThresholdCents:  domain.SettlementCents,
		MaxPositionSize: maxSize,
	}, store, tracker, queue, nil, metrics, logger)
}

func TestScanOncePublishesOnePerMarket(t *testing.T) {
	store, err := market.NewStore([]domain.MarketPair{
		{ID: "m1", KalshiTicker: "T1", PolyYesToken: "y1", PolyNoToken: "n1"},
		{ID: "m2", KalshiTicker: "T2", PolyYesToken: "y2", PolyNoToken: "n2"},
		{ID: "m3", KalshiTicker: "T3", PolyYesToken: "y3", PolyNoToken: "n3"},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	// m1 qualifies, m2 is priced out, m3 has a missing quote.
	for _, st := range store.All() {
		switch st.Pair.ID {
		case "m1":
			st.Kalshi.Set(40, 40, 100, 100)
			st.Poly.SetYes(40, 100)
			st.Poly.SetNo(40, 100)
		case "m2":
			st.Kalshi.Set(55, 55, 100, 100)
			st.Poly.SetYes(55, 100)
			st.Poly.SetNo(55, 100)
		case "m3":
			st.Kalshi.Set(40, 40, 100, 100)
		}
	}

	queue := NewQueue()
	defer queue.Close()
	det := newTestDetector(t, store, position.NewTracker(), queue, 10)

	det.ScanOnce(context.Background())

	select {
	case opp := <-queue.Recv():
		if opp.MarketID != "m1" {
			t.Fatalf("MarketID = %q, want m1", opp.MarketID)
		}
	case <-time.After(time.Second):
		t.Fatal("expected one opportunity")
	}
	select {
	case opp := <-queue.Recv():
		t.Fatalf("unexpected second opportunity: %+v", opp)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestScanOnceAdmissionControl(t *testing.T) {
	store, err := market.NewStore([]domain.MarketPair{
		{ID: "m1", KalshiTicker: "T1", PolyYesToken: "y1", PolyNoToken: "n1"},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	st := store.All()[0]
	st.Kalshi.Set(40, 40, 100, 100)
	st.Poly.SetYes(40, 100)
	st.Poly.SetNo(40, 100)

	const maxSize = 2
	tracker := position.NewTracker()
	tracker.RecordTrade("m1", 20)
	tracker.RecordTrade("m1", 20)

	queue := NewQueue()
	defer queue.Close()
	det := newTestDetector(t, store, tracker, queue, maxSize)

	det.ScanOnce(context.Background())

	select {
	case opp := <-queue.Recv():
		t.Fatalf("opportunity should have been dropped at the limit: %+v", opp)
	case <-time.After(20 * time.Millisecond):
	}
}

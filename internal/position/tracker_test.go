package position

import (
	"sync"
	"testing"
)

func TestCanTradeLimit(t *testing.T) {
	tr := NewTracker()
	const maxSize = 3

	for i := 0; i < maxSize; i++ {
		if !tr.CanTrade("mkt-1", maxSize) {
			t.Fatalf("CanTrade should pass at position %d/%d", i, maxSize)
		}
		tr.RecordTrade("mkt-1", 10)
	}

	if tr.CanTrade("mkt-1", maxSize) {
		t.Fatal("CanTrade should fail once position reaches max")
	}
	// Other markets are unaffected.
	if !tr.CanTrade("mkt-2", maxSize) {
		t.Fatal("CanTrade for an untouched market should pass")
	}
}

func TestRecordTradeAccounting(t *testing.T) {
	tr := NewTracker()
	tr.RecordTrade("a", 20)
	tr.RecordTrade("a", 18)
	tr.RecordTrade("b", -5)

	if got := tr.Position("a"); got != 2 {
		t.Errorf("Position(a) = %d, want 2", got)
	}
	if got := tr.Position("b"); got != 1 {
		t.Errorf("Position(b) = %d, want 1", got)
	}
	if got := tr.TotalPnL(); got != 33 {
		t.Errorf("TotalPnL = %d, want 33", got)
	}
	if got := tr.TradeCount(); got != 3 {
		t.Errorf("TradeCount = %d, want 3", got)
	}
	if got := tr.OpenMarkets(); got != 2 {
		t.Errorf("OpenMarkets = %d, want 2", got)
	}
}

func TestSummary(t *testing.T) {
	tr := NewTracker()
	tr.RecordTrade("a", 150)
	want := "Trades: 1 | P&L: $1.50 | Positions: 1"
	if got := tr.Summary(); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}

	tr.RecordTrade("b", -300)
	want = "Trades: 2 | P&L: $-1.50 | Positions: 2"
	if got := tr.Summary(); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.RecordTrade("a", 10)

	snap := tr.SnapshotState()
	snap.Positions["a"] = 99

	if got := tr.Position("a"); got != 1 {
		t.Fatalf("mutating snapshot leaked into tracker: Position(a) = %d", got)
	}
}

func TestConcurrentRecording(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tr.RecordTrade("mkt", 1)
				_ = tr.CanTrade("mkt", 10)
				_ = tr.TotalPnL()
			}
		}()
	}
	wg.Wait()

	if got := tr.TradeCount(); got != 800 {
		t.Errorf("TradeCount = %d, want 800", got)
	}
	if got := tr.TotalPnL(); got != 800 {
		t.Errorf("TotalPnL = %d, want 800", got)
	}
}

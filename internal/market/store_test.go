package market

import (
	"sync"
	"testing"

	"github.com/arbworks/crossbook/internal/domain"
)

func testPairs() []domain.MarketPair {
	return []domain.MarketPair{
		{
			ID:           "chelsea-arsenal",
			Description:  "Chelsea vs Arsenal (EPL)",
			MarketType:   domain.MarketTypeMoneyline,
			KalshiTicker: "KXEPLGAME-25DEC27CFCARS-CFC",
			PolySlug:     "chelsea-vs-arsenal",
			PolyYesToken: "token-yes-1",
			PolyNoToken:  "token-no-1",
		},
		{
			ID:           "bitcoin-100k",
			Description:  "Bitcoin > $100k",
			MarketType:   domain.MarketTypeTotal,
			KalshiTicker: "KXBTC-25FEB01-100K",
			PolySlug:     "bitcoin-100k",
			PolyYesToken: "token-yes-2",
			PolyNoToken:  "token-no-2",
		},
	}
}

func TestStoreLookups(t *testing.T) {
	s, err := NewStore(testPairs())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}

	st, ok := s.ByKalshiTicker("KXBTC-25FEB01-100K")
	if !ok || st.Pair.ID != "bitcoin-100k" {
		t.Fatalf("ByKalshiTicker: got %+v, ok=%v", st, ok)
	}

	st, isYes, ok := s.ByPolyToken("token-no-1")
	if !ok || isYes || st.Pair.ID != "chelsea-arsenal" {
		t.Fatalf("ByPolyToken(no): got %+v, isYes=%v, ok=%v", st, isYes, ok)
	}
	st, isYes, ok = s.ByPolyToken("token-yes-2")
	if !ok || !isYes || st.Pair.ID != "bitcoin-100k" {
		t.Fatalf("ByPolyToken(yes): got %+v, isYes=%v, ok=%v", st, isYes, ok)
	}

	if _, _, ok := s.ByPolyToken("unknown-token"); ok {
		t.Fatal("ByPolyToken should miss for unknown token")
	}
	if _, ok := s.ByKalshiTicker("NOPE"); ok {
		t.Fatal("ByKalshiTicker should miss for unknown ticker")
	}
}

func TestStoreRejectsDuplicates(t *testing.T) {
	pairs := testPairs()
	pairs[1].ID = pairs[0].ID
	if _, err := NewStore(pairs); err == nil {
		t.Fatal("expected error for duplicate market id")
	}

	pairs = testPairs()
	pairs[1].KalshiTicker = pairs[0].KalshiTicker
	if _, err := NewStore(pairs); err == nil {
		t.Fatal("expected error for duplicate kalshi ticker")
	}

	pairs = testPairs()
	pairs[1].PolyNoToken = pairs[0].PolyYesToken
	if _, err := NewStore(pairs); err == nil {
		t.Fatal("expected error for duplicate poly token")
	}
}

func TestBooksStartAtSentinel(t *testing.T) {
	s, err := NewStore(testPairs())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, st := range s.All() {
		k := st.Kalshi.Snapshot()
		p := st.Poly.Snapshot()
		if k.YesAsk != domain.NoPrice || k.NoAsk != domain.NoPrice ||
			p.YesAsk != domain.NoPrice || p.NoAsk != domain.NoPrice {
			t.Fatalf("books for %s not zeroed: kalshi=%+v poly=%+v", st.Pair.ID, k, p)
		}
	}
}

func TestBookSideUpdatesAreIndependent(t *testing.T) {
	var b Book
	b.SetYes(45, 1000)
	snap := b.Snapshot()
	if snap.YesAsk != 45 || snap.YesSize != 1000 {
		t.Fatalf("after SetYes: %+v", snap)
	}
	if snap.NoAsk != domain.NoPrice || snap.NoSize != 0 {
		t.Fatalf("SetYes touched NO side: %+v", snap)
	}

	b.SetNo(57, 500)
	snap = b.Snapshot()
	if snap.YesAsk != 45 || snap.NoAsk != 57 || snap.NoSize != 500 {
		t.Fatalf("after SetNo: %+v", snap)
	}
}

// Two writers on different venues of the same market plus a reader must not
// race. Run with -race.
func TestConcurrentVenueWriters(t *testing.T) {
	s, err := NewStore(testPairs())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	st := s.All()[0]

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			st.Kalshi.Set(40, 60, 100, 100)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			st.Poly.SetYes(41, 200)
			st.Poly.SetNo(58, 200)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = st.Kalshi.Snapshot()
			_ = st.Poly.Snapshot()
		}
	}()
	wg.Wait()

	k := st.Kalshi.Snapshot()
	if k.YesAsk != 40 || k.NoAsk != 60 {
		t.Fatalf("kalshi book after writers: %+v", k)
	}
}

package market

import (
	"fmt"

	"github.com/arbworks/crossbook/internal/domain"
)

// Store maps market IDs to their State and indexes each State by its venue
// routing keys so feed ingestors can route updates without scanning. The
// catalog is fixed at construction; all maps are read-only afterwards, so
// lookups need no locking. Only the per-venue Books inside each State are
// mutable.
type Store struct {
	byID           map[string]*State
	byKalshiTicker map[string]*State
	byPolyToken    map[string]*State
	ordered        []*State
}

// NewStore registers every pair in the catalog and builds the venue-key
// indexes. It returns an error on duplicate market IDs or routing keys.
func NewStore(pairs []domain.MarketPair) (*Store, error) {
	s := &Store{
		byID:           make(map[string]*State, len(pairs)),
		byKalshiTicker: make(map[string]*State, len(pairs)),
		byPolyToken:    make(map[string]*State, 2*len(pairs)),
	}
	for _, pair := range pairs {
		if pair.ID == "" {
			return nil, fmt.Errorf("market: pair with empty id (kalshi_ticker=%q)", pair.KalshiTicker)
		}
		if _, dup := s.byID[pair.ID]; dup {
			return nil, fmt.Errorf("market: duplicate market id %q", pair.ID)
		}
		if _, dup := s.byKalshiTicker[pair.KalshiTicker]; dup {
			return nil, fmt.Errorf("market: duplicate kalshi ticker %q", pair.KalshiTicker)
		}
		st := NewState(pair)
		s.byID[pair.ID] = st
		s.byKalshiTicker[pair.KalshiTicker] = st
		if pair.PolyYesToken != "" {
			if _, dup := s.byPolyToken[pair.PolyYesToken]; dup {
				return nil, fmt.Errorf("market: duplicate poly token %q", pair.PolyYesToken)
			}
			s.byPolyToken[pair.PolyYesToken] = st
		}
		if pair.PolyNoToken != "" {
			if _, dup := s.byPolyToken[pair.PolyNoToken]; dup {
				return nil, fmt.Errorf("market: duplicate poly token %q", pair.PolyNoToken)
			}
			s.byPolyToken[pair.PolyNoToken] = st
		}
		s.ordered = append(s.ordered, st)
	}
	return s, nil
}

// All returns every registered State in catalog order. The slice is shared;
// callers must not modify it.
func (s *Store) All() []*State {
	return s.ordered
}

// Len returns the number of tracked markets.
func (s *Store) Len() int {
	return len(s.ordered)
}

// ByID returns the State for a market ID.
func (s *Store) ByID(id string) (*State, bool) {
	st, ok := s.byID[id]
	return st, ok
}

// ByKalshiTicker resolves a Kalshi market ticker to its State. Unknown
// tickers return false; callers drop such updates silently.
func (s *Store) ByKalshiTicker(ticker string) (*State, bool) {
	st, ok := s.byKalshiTicker[ticker]
	return st, ok
}

// ByPolyToken resolves a Polymarket outcome-token ID to its State and
// reports whether the token is the YES side of that market.
func (s *Store) ByPolyToken(tokenID string) (st *State, isYes bool, ok bool) {
	st, ok = s.byPolyToken[tokenID]
	if !ok {
		return nil, false, false
	}
	return st, st.Pair.PolyYesToken == tokenID, true
}

// KalshiTickers returns every Kalshi ticker in the catalog, for feed
// subscription.
func (s *Store) KalshiTickers() []string {
	out := make([]string, 0, len(s.ordered))
	for _, st := range s.ordered {
		out = append(out, st.Pair.KalshiTicker)
	}
	return out
}

// PolyTokenIDs returns every Polymarket outcome-token ID in the catalog.
func (s *Store) PolyTokenIDs() []string {
	out := make([]string, 0, 2*len(s.ordered))
	for _, st := range s.ordered {
		if st.Pair.PolyYesToken != "" {
			out = append(out, st.Pair.PolyYesToken)
		}
		if st.Pair.PolyNoToken != "" {
			out = append(out, st.Pair.PolyNoToken)
		}
	}
	return out
}

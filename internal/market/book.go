// Package market maintains the in-memory state for every tracked market:
// one immutable MarketPair plus one independently synchronized orderbook per
// venue. The store is populated once at startup from the configured catalog
// and is read-mostly afterwards.
package market

import (
	"sync"

	"github.com/arbworks/crossbook/internal/domain"
)

// BookSnapshot is a copy of one venue's best-ask state at a point in time.
type BookSnapshot struct {
	YesAsk  domain.PriceCents
	NoAsk   domain.PriceCents
	YesSize domain.SizeCents
	NoSize  domain.SizeCents
}

// Book is a single venue's best-ask view of one market. It is written by
// exactly one feed producer and read by the detector; an RWMutex keeps each
// write visible to the next read without serializing unrelated markets.
type Book struct {
	mu      sync.RWMutex
	yesAsk  domain.PriceCents
	noAsk   domain.PriceCents
	yesSize domain.SizeCents
	noSize  domain.SizeCents
}

// Snapshot returns a consistent copy of the book.
func (b *Book) Snapshot() BookSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BookSnapshot{
		YesAsk:  b.yesAsk,
		NoAsk:   b.noAsk,
		YesSize: b.yesSize,
		NoSize:  b.noSize,
	}
}

// Set replaces all four fields at once. Used by feeds that deliver both
// sides in one message (Kalshi orderbook deltas).
func (b *Book) Set(yesAsk, noAsk domain.PriceCents, yesSize, noSize domain.SizeCents) {
	b.mu.Lock()
	b.yesAsk = yesAsk
	b.noAsk = noAsk
	b.yesSize = yesSize
	b.noSize = noSize
	b.mu.Unlock()
}

// SetYes updates only the YES side. Used by feeds that deliver one outcome
// token per message (Polymarket book events).
func (b *Book) SetYes(ask domain.PriceCents, size domain.SizeCents) {
	b.mu.Lock()
	b.yesAsk = ask
	b.yesSize = size
	b.mu.Unlock()
}

// SetNo updates only the NO side.
func (b *Book) SetNo(ask domain.PriceCents, size domain.SizeCents) {
	b.mu.Lock()
	b.noAsk = ask
	b.noSize = size
	b.mu.Unlock()
}

// State couples one MarketPair with its two per-venue books. The two books
// are updated by disjoint producers and never require joint atomicity;
// staleness across venues is expected and tolerated by the detector.
type State struct {
	Pair   domain.MarketPair
	Kalshi Book
	Poly   Book
}

// NewState creates a State with both books zeroed (all prices at the
// NoPrice sentinel).
func NewState(pair domain.MarketPair) *State {
	return &State{Pair: pair}
}

// Package position tracks open positions, realized P&L, and trade count for
// the whole process. A single Tracker instance is shared by the detector
// (admission checks), the executor (trade recording), and the risk monitor.
package position

import (
	"fmt"
	"sync"
)

// Tracker is the process-wide position and P&L aggregate, guarded by one
// mutex. Positions only ever grow: each recorded trade opens one
// contract-pair and nothing ever closes one in this design.
//
// CanTrade and RecordTrade are intentionally NOT one atomic transaction.
// When a market keeps qualifying across consecutive scan cycles faster than
// the executor drains the queue, the position cap can be overshot by the
// number of in-flight opportunities. This matches the behavior of the
// system this bot was ported from; see DESIGN.md before "fixing" it.
type Tracker struct {
	mu         sync.Mutex
	positions  map[string]uint16
	totalPnL   int64
	tradeCount uint64
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{positions: make(map[string]uint16)}
}

// CanTrade reports whether the market's open position is strictly below
// maxSize.
func (t *Tracker) CanTrade(marketID string, maxSize uint16) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.positions[marketID] < maxSize
}

// RecordTrade opens one contract-pair on the market and adds the signed
// profit to cumulative P&L. It never fails and performs no limit check;
// admission control happens in the detector.
func (t *Tracker) RecordTrade(marketID string, profitCents int16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.positions[marketID]++
	t.totalPnL += int64(profitCents)
	t.tradeCount++
}

// Position returns the open contract-pair count for a market.
func (t *Tracker) Position(marketID string) uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.positions[marketID]
}

// TotalPnL returns cumulative realized P&L in cents (signed).
func (t *Tracker) TotalPnL() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalPnL
}

// TradeCount returns the number of recorded trades.
func (t *Tracker) TradeCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tradeCount
}

// OpenMarkets returns how many markets currently hold an open position.
func (t *Tracker) OpenMarkets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.positions)
}

// Snapshot is a point-in-time copy of the tracker state for handlers and
// the risk monitor.
type Snapshot struct {
	Positions  map[string]uint16 `json:"positions"`
	TotalPnL   int64             `json:"total_pnl_cents"`
	TradeCount uint64            `json:"trade_count"`
}

// SnapshotState copies the full tracker state under the lock.
func (t *Tracker) SnapshotState() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	positions := make(map[string]uint16, len(t.positions))
	for id, n := range t.positions {
		positions[id] = n
	}
	return Snapshot{
		Positions:  positions,
		TotalPnL:   t.totalPnL,
		TradeCount: t.tradeCount,
	}
}

// Summary returns a one-line human-readable P&L summary for heartbeat logs.
func (t *Tracker) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fmt.Sprintf("Trades: %d | P&L: $%.2f | Positions: %d",
		t.tradeCount, float64(t.totalPnL)/100.0, len(t.positions))
}

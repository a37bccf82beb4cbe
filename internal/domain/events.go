package domain

import (
	"context"
	"time"
)

// Event names published on the signal bus and filtered by the notifier.
const (
	EventArbDetected   = "arb_detected"
	EventTradeRecorded = "trade_recorded"
	EventRiskAlert     = "risk_alert"
)

// OpportunityEvent is the JSON payload published to the "opportunities"
// channel for each opportunity handed to the executor.
type OpportunityEvent struct {
	Event       string    `json:"event"`
	ID          string    `json:"id"`
	MarketID    string    `json:"market_id"`
	ArbType     string    `json:"arb_type"`
	YesPrice    uint16    `json:"yes_price_cents"`
	NoPrice     uint16    `json:"no_price_cents"`
	TotalCost   uint16    `json:"total_cost_cents"`
	Fee         uint16    `json:"fee_cents"`
	ProfitCents int16     `json:"profit_cents"`
	DetectedAt  time.Time `json:"detected_at"`
}

// TradeEvent is the JSON payload published to the "trades" channel after the
// executor records a simulated trade.
type TradeEvent struct {
	Event       string    `json:"event"`
	MarketID    string    `json:"market_id"`
	ArbType     string    `json:"arb_type"`
	ProfitCents int16     `json:"profit_cents"`
	TotalPnL    int64     `json:"total_pnl_cents"`
	TradeCount  uint64    `json:"trade_count"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// StreamMessage is one entry read back from a capped event stream.
type StreamMessage struct {
	ID      string `json:"id"`
	Payload []byte `json:"payload"`
}

// SignalBus is the ephemeral pub/sub surface used for live observability.
// Implementations must tolerate slow or absent subscribers without blocking
// publishers.
type SignalBus interface {
	// Publish sends a payload to an ephemeral channel.
	Publish(ctx context.Context, channel string, payload []byte) error
	// StreamAppend appends a payload to a capped stream.
	StreamAppend(ctx context.Context, stream string, payload []byte) error
}

// QuoteCache holds the latest per-venue best asks for dashboard consumption.
type QuoteCache interface {
	SetQuote(ctx context.Context, venue, marketID string, q Quote) error
	GetQuote(ctx context.Context, venue, marketID string) (Quote, error)
}

// Quote is one venue's current best asks for a market, as cached.
type Quote struct {
	YesAsk    uint16    `json:"yes_ask_cents"`
	NoAsk     uint16    `json:"no_ask_cents"`
	YesSize   uint16    `json:"yes_size_cents"`
	NoSize    uint16    `json:"no_size_cents"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Package domain holds the core types shared across the crossbook bot:
// prices in integer cents, matched market pairs, per-venue orderbooks, and
// detected arbitrage opportunities.
package domain

import "time"

// PriceCents is a contract price in cents. Valid quoted prices are 1-99
// ($0.01-$0.99); NoPrice (0) means no quote has been received yet.
type PriceCents = uint16

// SizeCents is a dollar amount in cents (size at the best ask).
type SizeCents = uint16

// NoPrice is the sentinel for "no quote available".
const NoPrice PriceCents = 0

// SettlementCents is the guaranteed payout of a matched YES+NO pair.
// A combination whose total cost (including fees) is below this value
// locks in risk-free profit.
const SettlementCents PriceCents = 100

// MarketType categorizes a matched market pair.
type MarketType string

const (
	MarketTypeMoneyline MarketType = "moneyline"
	MarketTypeSpread    MarketType = "spread"
	MarketTypeTotal     MarketType = "total"
)

// MarketPair is the static identity of one matched market across both
// venues. It is immutable after registration.
type MarketPair struct {
	ID           string     `toml:"id"`
	Description  string     `toml:"description"`
	MarketType   MarketType `toml:"market_type"`
	KalshiTicker string     `toml:"kalshi_ticker"`
	PolySlug     string     `toml:"poly_slug"`
	PolyYesToken string     `toml:"poly_yes_token"`
	PolyNoToken  string     `toml:"poly_no_token"`
}

// ArbType identifies one of the four hedge combinations the detector
// evaluates per market. The declaration order is the evaluation order;
// earlier combinations win profit ties.
type ArbType int

const (
	// ArbPolyYesKalshiNo buys Polymarket YES and Kalshi NO.
	ArbPolyYesKalshiNo ArbType = iota
	// ArbKalshiYesPolyNo buys Kalshi YES and Polymarket NO.
	ArbKalshiYesPolyNo
	// ArbPolyOnly buys both legs on Polymarket (fee-free, rare).
	ArbPolyOnly
	// ArbKalshiOnly buys both legs on Kalshi (fee on each leg, rare).
	ArbKalshiOnly
)

// String returns the human-readable combination name.
func (t ArbType) String() string {
	switch t {
	case ArbPolyYesKalshiNo:
		return "Poly YES + Kalshi NO"
	case ArbKalshiYesPolyNo:
		return "Kalshi YES + Poly NO"
	case ArbPolyOnly:
		return "Poly YES + Poly NO"
	case ArbKalshiOnly:
		return "Kalshi YES + Kalshi NO"
	default:
		return "unknown"
	}
}

// ArbOpportunity is one detected hedge for one market in one scan cycle.
// It is immutable once created and consumed exactly once by the executor.
type ArbOpportunity struct {
	ID          string
	MarketID    string
	Description string
	ArbType     ArbType
	YesPrice    PriceCents
	NoPrice     PriceCents
	TotalCost   PriceCents
	Fee         PriceCents
	ProfitCents int16
	DetectedAt  time.Time
}

// ProfitPct returns the profit as a percentage of total cost, for display.
func (o ArbOpportunity) ProfitPct() float64 {
	if o.TotalCost == 0 {
		return 0
	}
	return float64(o.ProfitCents) / float64(o.TotalCost) * 100
}

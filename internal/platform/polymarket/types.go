package polymarket

// --------------------------------------------------------------------------
// Polymarket CLOB WebSocket DTOs
// --------------------------------------------------------------------------

// WSEnvelope carries the event type used to route inbound messages.
type WSEnvelope struct {
	EventType string `json:"event_type"` // "book", "subscribed", "error", etc.
}

// BookMessage is a full orderbook snapshot for a single outcome token.
// Prices and sizes arrive as decimal strings: prices as dollar fractions
// ("0.40"), sizes as dollars.
type BookMessage struct {
	EventType string       `json:"event_type"`
	AssetID   string       `json:"asset_id"`
	Market    string       `json:"market"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Timestamp string       `json:"timestamp"`
	Hash      string       `json:"hash"`
}

// PriceLevel is a single price+size entry in the book.
type PriceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// BestAsk returns the first ask level, which the feed carries best-first.
// ok is false when the book has no ask depth.
func (m *BookMessage) BestAsk() (PriceLevel, bool) {
	if len(m.Asks) == 0 {
		return PriceLevel{}, false
	}
	return m.Asks[0], true
}

// TokenID returns the outcome-token identifier the message is keyed by.
// Some feed versions populate market, others asset_id.
func (m *BookMessage) TokenID() string {
	if m.Market != "" {
		return m.Market
	}
	return m.AssetID
}

// WSCommand is a subscribe/unsubscribe command for a single token's channel.
type WSCommand struct {
	Type    string `json:"type"` // "subscribe" or "unsubscribe"
	Channel string `json:"channel"`
	Market  string `json:"market"`
}

package kalshi

// --------------------------------------------------------------------------
// Kalshi WebSocket DTOs
// --------------------------------------------------------------------------

// WSMessage is the envelope for Kalshi WebSocket messages. Only the type
// field is inspected before routing.
type WSMessage struct {
	Type string `json:"type"` // "orderbook_delta", "subscribed", "error", etc.
}

// OrderbookDelta is an orderbook update for a single market. Absent fields
// unmarshal to zero, which downstream treats as "no quote."
type OrderbookDelta struct {
	Ticker     string `json:"ticker"`
	YesAsk     int64  `json:"yes_ask"`      // cents, 1-99
	NoAsk      int64  `json:"no_ask"`       // cents, 1-99
	YesAskSize int64  `json:"yes_ask_size"` // cents
	NoAskSize  int64  `json:"no_ask_size"`  // cents
}

// SubscribeCmd is the command sent to subscribe to Kalshi WebSocket channels.
type SubscribeCmd struct {
	Type     string             `json:"type"` // "subscribe" or "unsubscribe"
	Channels []SubscribeChannel `json:"channels"`
}

// SubscribeChannel selects one channel and the market tickers it covers.
type SubscribeChannel struct {
	Name    string   `json:"name"` // e.g. "orderbook_delta"
	Tickers []string `json:"tickers"`
}

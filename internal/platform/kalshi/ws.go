// Package kalshi implements the Kalshi public market-data WebSocket client.
// No authentication: the public orderbook feed is read-only, and order
// placement is out of scope.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message.
	pongWait = 30 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	handshakeTimeout = 15 * time.Second
)

// DeltaHandler is called for every orderbook update received.
type DeltaHandler func(OrderbookDelta)

// WSClient is a single-connection WebSocket client for real-time Kalshi
// orderbook data. It does not reconnect; when the connection dies the
// terminal error is delivered on Done and the owning supervisor builds a
// fresh client.
type WSClient struct {
	wsURL string
	conn  *websocket.Conn

	mu     sync.Mutex
	closed bool

	handlerMu     sync.RWMutex
	deltaHandlers []DeltaHandler

	// done receives the terminal read error exactly once.
	done chan error
}

// NewWSClient creates a new Kalshi WebSocket client.
//
// wsURL is the WebSocket endpoint, e.g. "wss://api.elections.kalshi.com/trade-api/ws/v2".
func NewWSClient(wsURL string) *WSClient {
	return &WSClient{
		wsURL: wsURL,
		done:  make(chan error, 1),
	}
}

// Connect establishes the WebSocket connection and starts the read and ping
// loops.
func (w *WSClient) Connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("kalshi/ws: client is closed")
	}
	if w.conn != nil {
		return fmt.Errorf("kalshi/ws: already connected")
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.wsURL, nil)
	if err != nil {
		return fmt.Errorf("kalshi/ws: connect: %w", err)
	}
	w.conn = conn

	w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		w.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go w.readLoop(conn)
	go w.pingLoop(conn)

	return nil
}

// Subscribe subscribes to orderbook updates for the given market tickers.
func (w *WSClient) Subscribe(ctx context.Context, tickers []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return fmt.Errorf("kalshi/ws: not connected")
	}

	cmd := SubscribeCmd{
		Type: "subscribe",
		Channels: []SubscribeChannel{{
			Name:    "orderbook_delta",
			Tickers: tickers,
		}},
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("kalshi/ws: marshal subscribe: %w", err)
	}

	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("kalshi/ws: subscribe: %w", err)
	}
	return nil
}

// OnDelta registers a handler that is called for every orderbook update.
// Handlers must be registered before Connect.
func (w *WSClient) OnDelta(handler DeltaHandler) {
	w.handlerMu.Lock()
	defer w.handlerMu.Unlock()
	w.deltaHandlers = append(w.deltaHandlers, handler)
}

// Done delivers the terminal connection error once the read loop exits.
func (w *WSClient) Done() <-chan error {
	return w.done
}

// Close shuts down the WebSocket connection.
func (w *WSClient) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.conn != nil {
		_ = w.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		return w.conn.Close()
	}
	return nil
}

// readLoop reads messages until the connection fails, then reports the
// terminal error.
func (w *WSClient) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			w.done <- err
			return
		}
		w.handleMessage(message)
	}
}

// pingLoop sends periodic pings to keep the connection alive. Write errors
// are left for the read loop to observe.
func (w *WSClient) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

// handleMessage parses a raw WebSocket message and routes it. Unknown types
// and unparseable payloads are silently dropped.
func (w *WSClient) handleMessage(raw []byte) {
	var envelope WSMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return
	}

	switch envelope.Type {
	case "orderbook_delta", "orderbook_snapshot":
		var delta OrderbookDelta
		if err := json.Unmarshal(raw, &delta); err != nil {
			return
		}

		w.handlerMu.RLock()
		handlers := w.deltaHandlers
		w.handlerMu.RUnlock()

		for _, h := range handlers {
			h(delta)
		}
	}
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arbworks/crossbook/internal/domain"
)

// StreamTailer reads back the newest entries of a capped event stream.
// Implemented by the Redis signal bus.
type StreamTailer interface {
	StreamTail(ctx context.Context, stream string, count int) ([]domain.StreamMessage, error)
}

// ArbHandler serves recently detected opportunities and recorded trades from
// the event streams. When Redis is not configured the endpoints report the
// feature as unavailable.
type ArbHandler struct {
	tail   StreamTailer // nil when Redis is disabled
	logger *slog.Logger
}

// NewArbHandler creates an ArbHandler. tail may be nil.
func NewArbHandler(tail StreamTailer, logger *slog.Logger) *ArbHandler {
	return &ArbHandler{tail: tail, logger: logger}
}

// ListRecentOpportunities returns the newest detected opportunities.
// GET /api/arbitrage/recent?limit=50
func (h *ArbHandler) ListRecentOpportunities(w http.ResponseWriter, r *http.Request) {
	h.serveTail(w, r, "stream:opportunities", "opportunities")
}

// ListRecentTrades returns the newest recorded trades.
// GET /api/trades/recent?limit=50
func (h *ArbHandler) ListRecentTrades(w http.ResponseWriter, r *http.Request) {
	h.serveTail(w, r, "stream:trades", "trades")
}

func (h *ArbHandler) serveTail(w http.ResponseWriter, r *http.Request, stream, field string) {
	if h.tail == nil {
		writeError(w, http.StatusServiceUnavailable, "event history requires redis")
		return
	}

	limit := parseLimit(r, 50, 500)
	msgs, err := h.tail.StreamTail(r.Context(), stream, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: stream tail failed",
			slog.String("stream", stream),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read event stream")
		return
	}

	out := make([]json.RawMessage, 0, len(msgs))
	for _, m := range msgs {
		if json.Valid(m.Payload) {
			out = append(out, json.RawMessage(m.Payload))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{field: out})
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/arbworks/crossbook/internal/position"
)

// PositionHandler serves the position tracker's current state.
type PositionHandler struct {
	tracker *position.Tracker
	logger  *slog.Logger
}

// NewPositionHandler creates a PositionHandler.
func NewPositionHandler(tracker *position.Tracker, logger *slog.Logger) *PositionHandler {
	return &PositionHandler{tracker: tracker, logger: logger}
}

// ListPositions returns every open position plus the aggregate P&L state.
// GET /api/positions
func (h *PositionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.SnapshotState())
}

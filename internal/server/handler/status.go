package handler

import (
	"net/http"
	"time"

	"github.com/arbworks/crossbook/internal/position"
)

// StatusHandler serves the process status for dashboards.
type StatusHandler struct {
	Mode      string
	Markets   int
	StartedAt time.Time
	tracker   *position.Tracker
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(mode string, markets int, tracker *position.Tracker) *StatusHandler {
	return &StatusHandler{
		Mode:      mode,
		Markets:   markets,
		StartedAt: time.Now().UTC(),
		tracker:   tracker,
	}
}

// GetStatus responds with the current mode, catalog size, uptime, and P&L
// summary.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.tracker.SnapshotState()
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":            h.Mode,
		"markets":         h.Markets,
		"uptime_seconds":  int64(time.Since(h.StartedAt).Seconds()),
		"trade_count":     snap.TradeCount,
		"total_pnl_cents": snap.TotalPnL,
		"summary":         h.tracker.Summary(),
	})
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/market"
)

// MarketHandler serves the live market catalog with current per-venue books.
type MarketHandler struct {
	store  *market.Store
	logger *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(store *market.Store, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{store: store, logger: logger}
}

// marketView is one market's catalog entry plus its current books.
type marketView struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	MarketType  string   `json:"market_type"`
	Kalshi      bookView `json:"kalshi"`
	Polymarket  bookView `json:"polymarket"`
}

type bookView struct {
	YesAsk  domain.PriceCents `json:"yes_ask_cents"`
	NoAsk   domain.PriceCents `json:"no_ask_cents"`
	YesSize domain.SizeCents  `json:"yes_size_cents"`
	NoSize  domain.SizeCents  `json:"no_size_cents"`
}

// ListMarkets returns every tracked market with both venue books.
// GET /api/markets
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	states := h.store.All()
	out := make([]marketView, 0, len(states))
	for _, st := range states {
		out = append(out, viewOf(st))
	}
	writeJSON(w, http.StatusOK, map[string]any{"markets": out})
}

// GetMarket returns one market by ID.
// GET /api/markets/{id}
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, ok := h.store.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown market id")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(st))
}

func viewOf(st *market.State) marketView {
	k := st.Kalshi.Snapshot()
	p := st.Poly.Snapshot()
	return marketView{
		ID:          st.Pair.ID,
		Description: st.Pair.Description,
		MarketType:  string(st.Pair.MarketType),
		Kalshi:      bookView{k.YesAsk, k.NoAsk, k.YesSize, k.NoSize},
		Polymarket:  bookView{p.YesAsk, p.NoAsk, p.YesSize, p.NoSize},
	}
}

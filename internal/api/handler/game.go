package handler

import (
	"net/http"

	"clickarena/internal/api/middleware"
	"clickarena/internal/api/response"
	"clickarena/internal/services/ranking"
	"clickarena/internal/services/score"
)

// GameHandler handles game endpoints
type GameHandler struct {
	ledger  *score.Ledger
	ranking *ranking.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(ledger *score.Ledger, rankingService *ranking.Service) *GameHandler {
	return &GameHandler{
		ledger:  ledger,
		ranking: rankingService,
	}
}

// Click handles POST /api/v1/game/click
func (h *GameHandler) Click(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())

	count, err := h.ledger.Increment(r.Context(), principal.IdentityID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClickResponse{Count: count})
}

// Rankings handles GET /api/v1/game/rankings
func (h *GameHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ranking.Compute(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RankingsFromModel(entries))
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synqtra/synqtra-api/internal/models"
)

// GetLeaderboard returns the ranked view for one tier.
// @Summary Tier Leaderboard
// @Description Top 10 wallets within a tier, points descending
// @Tags Leaderboard
// @Produce json
// @Param tier path string true "Tier (bronze, silver, gold)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /leaderboard/{tier} [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	tier, ok := models.ParseRank(chi.URLParam(r, "tier"))
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "Unknown tier")
		return
	}

	entries, err := h.leaderboard.Project(r.Context(), tier)
	if err != nil {
		h.logger.Errorw("failed to project leaderboard", "tier", tier, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"tier":    tier,
		"entries": entries,
	})
}

// GetLeaderboardOverview returns all three tier views.
func (h *Handler) GetLeaderboardOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.leaderboard.Overview(r.Context())
	if err != nil {
		h.logger.Errorw("failed to build leaderboard overview", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	h.jsonResponse(w, http.StatusOK, overview)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/synqtra/synqtra-api/internal/logic"
	"github.com/synqtra/synqtra-api/internal/models"
)

// GetPoints returns the active wallet's working counters and tier.
func (h *Handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	total := h.ledger.CurrentTotal()
	address, active := h.ledger.ActiveWallet()

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"address":      address,
		"active":       active,
		"total_points": total,
		"games_played": h.ledger.CurrentGamesPlayed(),
		"rank":         models.RankForPoints(total),
	})
}

// AddPoints applies a raw point award to the active wallet. With no wallet
// bound the award is dropped and the response says so; gameplay emitters do
// not gate on session state.
func (h *Handler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req models.AddPointsRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Points must be non-negative")
		return
	}

	_, active := h.ledger.ActiveWallet()
	if err := h.ledger.AddPoints(r.Context(), req.Points); err != nil {
		h.logger.Errorw("failed to add points", "points", req.Points, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to add points")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"applied":      active,
		"total_points": h.ledger.CurrentTotal(),
	})
}

// ResetPoints zeroes the active wallet's counters. Demo/testing path, not
// part of the normal UI flow.
func (h *Handler) ResetPoints(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Reset(r.Context()); err != nil {
		h.logger.Errorw("failed to reset wallet", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to reset")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"total_points": h.ledger.CurrentTotal(),
	})
}

// ListGames returns the mini-game catalog.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"games": logic.Games(),
	})
}

// CompleteGame awards a finished game's catalog points and bumps the
// games-played counter.
// @Summary Complete Mini-Game
// @Description Awards the game's points to the active wallet
// @Tags Games
// @Produce json
// @Param gameID path string true "Game ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /games/{gameID}/complete [post]
func (h *Handler) CompleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	game, ok := logic.GameByID(gameID)
	if !ok {
		h.errorResponse(w, http.StatusNotFound, "Unknown game")
		return
	}

	ctx := r.Context()
	address, active := h.ledger.ActiveWallet()

	if err := h.ledger.IncrementGamesPlayed(ctx); err != nil {
		h.logger.Errorw("failed to increment games played", "game", gameID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to record game")
		return
	}
	if err := h.ledger.AddPoints(ctx, game.Points); err != nil {
		h.logger.Errorw("failed to award game points", "game", gameID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to award points")
		return
	}

	if active && h.queue != nil {
		h.queue.Enqueue(&models.InteractionEvent{
			Type:      models.EventGameComplete,
			Wallet:    address,
			RefID:     game.ID,
			Points:    game.Points,
			Timestamp: time.Now().UTC(),
		})
	}

	total := h.ledger.CurrentTotal()
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"applied":      active,
		"game":         game.ID,
		"awarded":      game.Points,
		"badge":        game.Badge,
		"total_points": total,
		"rank":         models.RankForPoints(total),
		"games_played": h.ledger.CurrentGamesPlayed(),
	})
}

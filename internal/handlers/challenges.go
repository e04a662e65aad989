package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/synqtra/synqtra-api/internal/logic"
	"github.com/synqtra/synqtra-api/internal/models"
)

// ListChallenges returns the challenge catalog with the active wallet's
// completion flags merged in from Postgres.
func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	catalog := logic.Challenges()

	address, active := h.ledger.ActiveWallet()
	if active && h.pg != nil {
		rows, err := h.pg.Query(ctx,
			"SELECT challenge_id FROM challenge_completions WHERE wallet = $1", address)
		if err != nil {
			h.logger.Errorw("failed to query challenge completions", "wallet", address, "error", err)
			h.errorResponse(w, http.StatusInternalServerError, "Failed to load challenges")
			return
		}
		defer rows.Close()

		completed := make(map[string]bool)
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				h.logger.Warnw("failed to scan challenge completion", "error", err)
				continue
			}
			completed[id] = true
		}

		for i := range catalog {
			catalog[i].Completed = completed[catalog[i].ID]
		}
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"challenges": catalog,
	})
}

// CompleteChallenge awards a challenge's points once per wallet.
func (h *Handler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID := chi.URLParam(r, "challengeID")
	challenge, ok := logic.ChallengeByID(challengeID)
	if !ok {
		h.errorResponse(w, http.StatusNotFound, "Unknown challenge")
		return
	}

	ctx := r.Context()
	address, active := h.ledger.ActiveWallet()
	if !active {
		h.errorResponse(w, http.StatusConflict, "No active session")
		return
	}

	// The insert is the dedup gate: first writer wins, concurrent repeats
	// see zero rows affected and award nothing.
	tag, err := h.pg.Exec(ctx, `
		INSERT INTO challenge_completions (wallet, challenge_id, points, completed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (wallet, challenge_id) DO NOTHING
	`, address, challenge.ID, challenge.Points, time.Now().UTC())
	if err != nil {
		h.logger.Errorw("failed to record challenge completion", "challenge", challengeID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to complete challenge")
		return
	}

	awarded := tag.RowsAffected() == 1
	if awarded {
		if err := h.ledger.AddPoints(ctx, challenge.Points); err != nil {
			h.logger.Errorw("failed to award challenge points", "challenge", challengeID, "error", err)
			h.errorResponse(w, http.StatusInternalServerError, "Failed to award points")
			return
		}

		if h.queue != nil {
			h.queue.Enqueue(&models.InteractionEvent{
				Type:      models.EventChallengeComplete,
				Wallet:    address,
				RefID:     challenge.ID,
				Points:    challenge.Points,
				Timestamp: time.Now().UTC(),
			})
		}
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"challenge":    challenge.ID,
		"awarded":      awarded,
		"points":       challenge.Points,
		"total_points": h.ledger.CurrentTotal(),
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/synqtra/synqtra-api/internal/logic"
	"github.com/synqtra/synqtra-api/internal/models"
)

// Connect binds the connected wallet: runs the profile check and signs the
// session in. A failed check is transient; the client may retry.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var req models.ConnectRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Address required")
		return
	}

	info, err := h.session.Connect(r.Context(), req.Address)
	if err != nil {
		if errors.Is(err, logic.ErrCheckFailed) {
			h.errorResponse(w, http.StatusBadGateway, "Failed to verify your profile. Please try again.")
			return
		}
		h.logger.Errorw("connect failed", "address", req.Address, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to establish session")
		return
	}

	h.jsonResponse(w, http.StatusOK, info)
}

// Disconnect signs the session out and flushes the ledger.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Disconnect(r.Context()); err != nil {
		h.logger.Errorw("disconnect failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	h.jsonResponse(w, http.StatusOK, h.session.Info())
}

// GetSession returns the current auth state snapshot.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.session.Info())
}

package handlers

import (
	"net/http"
	"time"

	"github.com/synqtra/synqtra-api/internal/models"
)

// VerifyQR accepts a scanned QR payload and records the connection.
// @Summary Verify QR Scan
// @Description Accepts a scan payload and records the in-person connection
// @Tags QR
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /qr/verify [post]
func (h *Handler) VerifyQR(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyQRRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.jsonResponse(w, http.StatusBadRequest, map[string]interface{}{
			"ok":    false,
			"error": "Missing fields",
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.jsonResponse(w, http.StatusBadRequest, map[string]interface{}{
			"ok":    false,
			"error": "Missing fields",
		})
		return
	}

	// TODO: verify req.Signature once the signing scheme ships (EIP-712 or
	// server-signed tokens). Until then this endpoint accepts any payload
	// with the three required fields and is not a security boundary.

	if h.queue != nil {
		h.queue.Enqueue(&models.InteractionEvent{
			Type:         models.EventQRScan,
			Wallet:       req.From,
			Counterparty: req.To,
			RefID:        req.ChallengeID,
			Timestamp:    time.Now().UTC(),
		})
	}

	h.logger.Infow("qr scan verified", "from", req.From, "to", req.To, "challenge", req.ChallengeID)
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Verified (stub)",
	})
}

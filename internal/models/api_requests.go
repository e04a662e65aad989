package models

// VerifyQRRequest is the body of POST /qr/verify. The payload format on the
// wire is "synqtra:profile:<address>"; the client splits it into fields before
// calling verify. Signature is optional and currently unchecked.
type VerifyQRRequest struct {
	From        string `json:"from" validate:"required"`
	To          string `json:"to" validate:"required"`
	ChallengeID string `json:"challengeId" validate:"required"`
	Signature   string `json:"signature,omitempty"`
}

// ConnectRequest is the body of POST /session/connect.
type ConnectRequest struct {
	Address string `json:"address" validate:"required"`
}

// AddPointsRequest is the body of POST /points/add. Points must be
// non-negative; the ledger never subtracts in normal operation.
type AddPointsRequest struct {
	Points int64 `json:"points" validate:"gte=0"`
}

package models

import "time"

// WalletRecord is the persisted per-wallet accumulator. One exists for every
// wallet address ever bound; records are never deleted. Addresses are opaque
// strings kept in the chain's canonical casing.
type WalletRecord struct {
	Address     string    `json:"address"`
	TotalPoints int64     `json:"total_points"`
	GamesPlayed int64     `json:"games_played"`
	// LastUpdated is informational only. There is a single active session at
	// a time, so it is never used for conflict resolution.
	LastUpdated time.Time `json:"last_updated"`
}

// SessionState is the auth state machine position.
type SessionState string

const (
	SessionSignedOut SessionState = "signed_out"
	SessionChecking  SessionState = "checking"
	SessionSignedIn  SessionState = "signed_in"
)

// SessionRecord is the persisted auth flag for the active session, kept under
// its own namespaced key so it survives restarts.
type SessionRecord struct {
	Address    string    `json:"address"`
	HasProfile bool      `json:"has_profile"`
	LastSignIn time.Time `json:"last_sign_in"`
}

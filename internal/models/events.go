package models

import "time"

// EventType identifies an interaction event flowing through the worker pool.
type EventType string

const (
	EventGameComplete      EventType = "game_complete"
	EventChallengeComplete EventType = "challenge_complete"
	EventQRScan            EventType = "qr_scan"
)

// InteractionEvent is the unit recorded by the analytics sink. Handlers
// enqueue these after the synchronous ledger mutation has already happened;
// dropping one loses analytics, never points.
type InteractionEvent struct {
	Type         EventType `json:"type" validate:"required"`
	Wallet       string    `json:"wallet"`
	Counterparty string    `json:"counterparty,omitempty"`
	RefID        string    `json:"ref_id,omitempty"`
	Points       int64     `json:"points"`
	Timestamp    time.Time `json:"timestamp"`
}

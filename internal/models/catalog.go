package models

// Game describes a mini-game in the catalog. Games are black-box point
// emitters: the server only cares about the completion award, not the
// gameplay itself.
type Game struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int64  `json:"points"`
	Badge       string `json:"badge,omitempty"`
}

// Challenge is an event networking task (scan a QR, visit booths, ...).
type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int64  `json:"points"`
	Completed   bool   `json:"completed"`
}

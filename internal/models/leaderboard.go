package models

// LeaderboardEntry is a derived, read-only view of a wallet within one tier.
// Position is 1-based and local to the tier view, not global.
type LeaderboardEntry struct {
	Address     string `json:"address"`
	TotalPoints int64  `json:"total_points"`
	GamesPlayed int64  `json:"games_played"`
	Rank        Rank   `json:"rank"`
	Position    int    `json:"position"`
}

// LeaderboardOverview carries all three tier projections at once.
type LeaderboardOverview struct {
	Gold   []LeaderboardEntry `json:"gold"`
	Silver []LeaderboardEntry `json:"silver"`
	Bronze []LeaderboardEntry `json:"bronze"`
}

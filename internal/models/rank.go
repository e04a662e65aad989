package models

// Rank is the competitive tier a wallet's point total classifies into.
type Rank string

const (
	RankBronze Rank = "bronze"
	RankSilver Rank = "silver"
	RankGold   Rank = "gold"
)

// Tier thresholds, inclusive lower bounds.
const (
	SilverThreshold = 50
	GoldThreshold   = 100
)

// RankForPoints maps a point total to its tier. Pure and total: every
// non-negative total classifies, and the result never demotes as points grow.
func RankForPoints(points int64) Rank {
	switch {
	case points >= GoldThreshold:
		return RankGold
	case points >= SilverThreshold:
		return RankSilver
	default:
		return RankBronze
	}
}

// ParseRank validates a tier string from the API surface.
func ParseRank(s string) (Rank, bool) {
	switch Rank(s) {
	case RankBronze, RankSilver, RankGold:
		return Rank(s), true
	}
	return "", false
}

// Badge is the decorative palette used by profile displays. It is a superset
// of Rank: platinum and diamond are cosmetic only and never produced by
// RankForPoints. Keep the two concepts separate.
type Badge string

const (
	BadgeBronze   Badge = "bronze"
	BadgeSilver   Badge = "silver"
	BadgeGold     Badge = "gold"
	BadgePlatinum Badge = "platinum"
	BadgeDiamond  Badge = "diamond"
)

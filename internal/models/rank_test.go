package models

import "testing"

func TestRankForPoints_Thresholds(t *testing.T) {
	tests := []struct {
		points int64
		want   Rank
	}{
		{0, RankBronze},
		{1, RankBronze},
		{49, RankBronze},
		{50, RankSilver},
		{75, RankSilver},
		{99, RankSilver},
		{100, RankGold},
		{150, RankGold},
		{1_000_000, RankGold},
	}

	for _, tt := range tests {
		if got := RankForPoints(tt.points); got != tt.want {
			t.Errorf("RankForPoints(%d) = %s, want %s", tt.points, got, tt.want)
		}
	}
}

func TestRankForPoints_Monotonic(t *testing.T) {
	order := map[Rank]int{RankBronze: 0, RankSilver: 1, RankGold: 2}

	prev := RankForPoints(0)
	for p := int64(1); p <= 500; p++ {
		cur := RankForPoints(p)
		if order[cur] < order[prev] {
			t.Fatalf("rank demoted from %s to %s at %d points", prev, cur, p)
		}
		prev = cur
	}
}

func TestParseRank(t *testing.T) {
	for _, valid := range []string{"bronze", "silver", "gold"} {
		if _, ok := ParseRank(valid); !ok {
			t.Errorf("ParseRank(%q) rejected a valid tier", valid)
		}
	}
	for _, invalid := range []string{"", "platinum", "diamond", "Gold", "iron"} {
		if _, ok := ParseRank(invalid); ok {
			t.Errorf("ParseRank(%q) accepted an invalid tier", invalid)
		}
	}
}

package logic

import (
	"fmt"
	"testing"
	"time"

	"github.com/synqtra/synqtra-api/internal/models"
)

func record(address string, points int64) *models.WalletRecord {
	return &models.WalletRecord{
		Address:     address,
		TotalPoints: points,
		GamesPlayed: 1,
		LastUpdated: time.Unix(0, 0),
	}
}

func TestProjectTier_SilverOrdering(t *testing.T) {
	records := []*models.WalletRecord{
		record("0xgold", 120),
		record("0xsilver-low", 80),
		record("0xsilver-high", 95),
		record("0xbronze", 40),
	}

	entries := projectTier(records, models.RankSilver)

	if len(entries) != 2 {
		t.Fatalf("expected 2 silver entries, got %d", len(entries))
	}
	if entries[0].TotalPoints != 95 || entries[1].TotalPoints != 80 {
		t.Errorf("expected points [95, 80], got [%d, %d]", entries[0].TotalPoints, entries[1].TotalPoints)
	}
	if entries[0].Position != 1 || entries[1].Position != 2 {
		t.Errorf("expected positions [1, 2], got [%d, %d]", entries[0].Position, entries[1].Position)
	}
}

func TestProjectTier_CapsAtTen(t *testing.T) {
	records := make([]*models.WalletRecord, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, record(fmt.Sprintf("0x%02d", i), 100+int64(i)))
	}

	entries := projectTier(records, models.RankGold)

	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Rank != models.RankGold {
			t.Errorf("entry %d has rank %s, want gold", i, entry.Rank)
		}
		if entry.Position != i+1 {
			t.Errorf("entry %d has position %d", i, entry.Position)
		}
	}
	// Highest totals survive the cut
	if entries[0].TotalPoints != 129 {
		t.Errorf("expected top entry 129 points, got %d", entries[0].TotalPoints)
	}
}

func TestProjectTier_TieBreakIsLexicalByAddress(t *testing.T) {
	records := []*models.WalletRecord{
		record("0xccc", 60),
		record("0xaaa", 60),
		record("0xbbb", 60),
	}

	entries := projectTier(records, models.RankSilver)

	want := []string{"0xaaa", "0xbbb", "0xccc"}
	for i, addr := range want {
		if entries[i].Address != addr {
			t.Errorf("position %d: got %s, want %s", i+1, entries[i].Address, addr)
		}
	}
}

func TestProjectTier_EmptyTier(t *testing.T) {
	records := []*models.WalletRecord{record("0xbronze", 10)}

	entries := projectTier(records, models.RankGold)
	if len(entries) != 0 {
		t.Fatalf("expected empty gold tier, got %d entries", len(entries))
	}
}

func TestProjectTier_RankMatchesRequestedTier(t *testing.T) {
	records := []*models.WalletRecord{
		record("0xa", 0), record("0xb", 49), record("0xc", 50),
		record("0xd", 99), record("0xe", 100), record("0xf", 500),
	}

	for _, tier := range []models.Rank{models.RankBronze, models.RankSilver, models.RankGold} {
		for _, entry := range projectTier(records, tier) {
			if entry.Rank != tier {
				t.Errorf("tier %s returned entry with rank %s", tier, entry.Rank)
			}
			if models.RankForPoints(entry.TotalPoints) != tier {
				t.Errorf("tier %s contains wallet with %d points", tier, entry.TotalPoints)
			}
		}
	}
}

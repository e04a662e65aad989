package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/synqtra/synqtra-api/internal/models"
	"github.com/synqtra/synqtra-api/internal/repositories/wallet"
)

// maxEntriesPerTier caps each tier view at the top 10 wallets.
const maxEntriesPerTier = 10

// LeaderboardConfig holds dependencies for the leaderboard projection
type LeaderboardConfig struct {
	Repository wallet.Repository
}

type leaderboardService struct {
	repo wallet.Repository
}

// NewLeaderboard creates the leaderboard projection service
func NewLeaderboard(cfg *LeaderboardConfig) (LeaderboardService, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Repository == nil {
		return nil, errors.New("wallet repository cannot be nil")
	}
	return &leaderboardService{repo: cfg.Repository}, nil
}

// Project builds the ranked view for one tier: filter by classified rank,
// sort by points descending with lexical address ascending as tie-break,
// keep the top 10, and number positions locally to the tier.
func (s *leaderboardService) Project(ctx context.Context, tier models.Rank) ([]models.LeaderboardEntry, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	return projectTier(records, tier), nil
}

// Overview fetches all three tier views concurrently.
func (s *leaderboardService) Overview(ctx context.Context) (*models.LeaderboardOverview, error) {
	overview := &models.LeaderboardOverview{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := s.Project(ctx, models.RankGold)
		if err != nil {
			return fmt.Errorf("gold tier: %w", err)
		}
		overview.Gold = entries
		return nil
	})

	g.Go(func() error {
		entries, err := s.Project(ctx, models.RankSilver)
		if err != nil {
			return fmt.Errorf("silver tier: %w", err)
		}
		overview.Silver = entries
		return nil
	})

	g.Go(func() error {
		entries, err := s.Project(ctx, models.RankBronze)
		if err != nil {
			return fmt.Errorf("bronze tier: %w", err)
		}
		overview.Bronze = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return overview, nil
}

func projectTier(records []*models.WalletRecord, tier models.Rank) []models.LeaderboardEntry {
	filtered := make([]*models.WalletRecord, 0, len(records))
	for _, record := range records {
		if models.RankForPoints(record.TotalPoints) == tier {
			filtered = append(filtered, record)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].TotalPoints != filtered[j].TotalPoints {
			return filtered[i].TotalPoints > filtered[j].TotalPoints
		}
		return filtered[i].Address < filtered[j].Address
	})

	if len(filtered) > maxEntriesPerTier {
		filtered = filtered[:maxEntriesPerTier]
	}

	entries := make([]models.LeaderboardEntry, 0, len(filtered))
	for i, record := range filtered {
		entries = append(entries, models.LeaderboardEntry{
			Address:     record.Address,
			TotalPoints: record.TotalPoints,
			GamesPlayed: record.GamesPlayed,
			Rank:        tier,
			Position:    i + 1,
		})
	}

	return entries
}

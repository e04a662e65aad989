package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/synqtra/synqtra-api/internal/common/clock"
	"github.com/synqtra/synqtra-api/internal/models"
	"github.com/synqtra/synqtra-api/internal/repositories/wallet"
)

// LedgerConfig holds dependencies for the wallet points ledger
type LedgerConfig struct {
	Repository wallet.Repository
	Clock      clock.Clock
	Logger     *zap.Logger
}

// walletLedger keeps a working copy of the active wallet's counters and
// writes every mutation through to the wallet record store. The mutex covers
// concurrent HTTP handlers; logically there is still a single active session.
type walletLedger struct {
	mu     sync.Mutex
	repo   wallet.Repository
	clock  clock.Clock
	logger *zap.SugaredLogger

	current     string
	totalPoints int64
	gamesPlayed int64
}

// NewLedger creates the wallet points ledger service
func NewLedger(cfg *LedgerConfig) (LedgerService, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Repository == nil {
		return nil, errors.New("wallet repository cannot be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &walletLedger{
		repo:   cfg.Repository,
		clock:  cfg.Clock,
		logger: cfg.Logger.Sugar(),
	}, nil
}

// Bind activates the ledger entry for address, flushing any previously
// active wallet first. Binding the already-active wallet is a no-op.
func (l *walletLedger) Bind(ctx context.Context, address string) error {
	if address == "" {
		return errors.New("address cannot be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == address {
		return nil
	}

	if l.current != "" {
		if err := l.flushLocked(ctx); err != nil {
			return fmt.Errorf("failed to flush wallet %s: %w", l.current, err)
		}
	}

	record, err := l.repo.Get(ctx, &wallet.GetInput{Address: address})
	if err != nil {
		if !errors.Is(err, wallet.ErrWalletNotFound) {
			return fmt.Errorf("failed to load wallet %s: %w", address, err)
		}
		// First connect of an unseen wallet: create it with zero counters.
		record = &models.WalletRecord{
			Address:     address,
			LastUpdated: l.clock.Now(),
		}
		if err := l.repo.Save(ctx, &wallet.SaveInput{Record: record}); err != nil {
			return fmt.Errorf("failed to create wallet %s: %w", address, err)
		}
		l.logger.Infow("created wallet record", "address", address)
	}

	l.current = address
	l.totalPoints = record.TotalPoints
	l.gamesPlayed = record.GamesPlayed

	l.logger.Infow("wallet bound", "address", address, "points", l.totalPoints, "games", l.gamesPlayed)
	return nil
}

// Unbind flushes the active wallet and clears the working state. With no
// active wallet it is a no-op.
func (l *walletLedger) Unbind(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == "" {
		return nil
	}

	if err := l.flushLocked(ctx); err != nil {
		return fmt.Errorf("failed to flush wallet %s: %w", l.current, err)
	}

	l.logger.Infow("wallet unbound", "address", l.current)
	l.current = ""
	l.totalPoints = 0
	l.gamesPlayed = 0
	return nil
}

// AddPoints increases the working total and mirrors it into the stored
// record. Points arriving with no wallet bound are dropped on purpose:
// gameplay emitters do not gate themselves on session state.
func (l *walletLedger) AddPoints(ctx context.Context, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == "" {
		l.logger.Debugw("dropping points, no active wallet", "amount", amount)
		return nil
	}

	l.totalPoints += amount
	return l.flushLocked(ctx)
}

// IncrementGamesPlayed bumps the games counter by exactly one, once per
// completed game session. Same no-active-wallet tolerance as AddPoints.
func (l *walletLedger) IncrementGamesPlayed(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == "" {
		l.logger.Debug("dropping games-played increment, no active wallet")
		return nil
	}

	l.gamesPlayed++
	return l.flushLocked(ctx)
}

// CurrentTotal returns the working total, 0 when no wallet is active.
func (l *walletLedger) CurrentTotal() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPoints
}

// CurrentGamesPlayed returns the working games counter.
func (l *walletLedger) CurrentGamesPlayed() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gamesPlayed
}

// ActiveWallet reports the bound address, if any.
func (l *walletLedger) ActiveWallet() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.current != ""
}

// Reset zeroes both working counters and the stored record in place. Demo
// and testing path only; there is no user-facing reset.
func (l *walletLedger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == "" {
		return nil
	}

	l.totalPoints = 0
	l.gamesPlayed = 0
	return l.flushLocked(ctx)
}

// flushLocked writes the working counters into the active wallet's record
// with a fresh timestamp. Caller must hold l.mu.
func (l *walletLedger) flushLocked(ctx context.Context) error {
	return l.repo.Save(ctx, &wallet.SaveInput{Record: &models.WalletRecord{
		Address:     l.current,
		TotalPoints: l.totalPoints,
		GamesPlayed: l.gamesPlayed,
		LastUpdated: l.clock.Now(),
	}})
}

package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/synqtra/synqtra-api/internal/common/clock"
	"github.com/synqtra/synqtra-api/internal/models"
	"github.com/synqtra/synqtra-api/internal/repositories/wallet"
)

// ErrCheckFailed wraps profile check failures; the session reverts to
// signed-out and the caller surfaces a transient error.
var ErrCheckFailed = errors.New("profile check failed")

// SessionInfo is a snapshot of the auth state machine.
type SessionInfo struct {
	State      models.SessionState `json:"state"`
	Address    string              `json:"address,omitempty"`
	HasProfile bool                `json:"has_profile"`
	LastSignIn time.Time           `json:"last_sign_in,omitempty"`
}

// SessionConfig holds dependencies for the session binder
type SessionConfig struct {
	Ledger       LedgerService
	Checker      ProfileChecker
	Repository   wallet.Repository
	Clock        clock.Clock
	Logger       *zap.Logger
	CheckTimeout time.Duration
}

type sessionBinder struct {
	mu           sync.Mutex
	ledger       LedgerService
	checker      ProfileChecker
	repo         wallet.Repository
	clock        clock.Clock
	logger       *zap.SugaredLogger
	checkTimeout time.Duration

	state      models.SessionState
	address    string
	hasProfile bool
	lastSignIn time.Time

	// generation invalidates in-flight profile checks when the wallet
	// connects or disconnects underneath them.
	generation uint64
}

// NewSession creates the session binder service
func NewSession(cfg *SessionConfig) (SessionService, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Ledger == nil {
		return nil, errors.New("ledger cannot be nil")
	}
	if cfg.Checker == nil {
		return nil, errors.New("profile checker cannot be nil")
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

	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &sessionBinder{
		ledger:       cfg.Ledger,
		checker:      cfg.Checker,
		repo:         cfg.Repository,
		clock:        cfg.Clock,
		logger:       cfg.Logger.Sugar(),
		checkTimeout: timeout,
		state:        models.SessionSignedOut,
	}, nil
}

// Connect runs the connect transition: signedOut -> checking -> signedIn.
// A failed or timed-out profile check reverts to signedOut. A result that
// arrives after the wallet changed is discarded.
func (s *sessionBinder) Connect(ctx context.Context, address string) (*SessionInfo, error) {
	if address == "" {
		return nil, errors.New("address cannot be empty")
	}

	s.mu.Lock()
	if s.state == models.SessionSignedIn && s.address == address {
		info := s.infoLocked()
		s.mu.Unlock()
		return info, nil
	}

	s.generation++
	gen := s.generation
	s.state = models.SessionChecking
	s.address = address
	s.mu.Unlock()

	checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	hasProfile, err := s.checker.HasProfile(checkCtx, address)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// Wallet disconnected or reconnected while the check was in flight.
		s.logger.Infow("discarding stale profile check", "address", address)
		return s.infoLocked(), nil
	}

	if err != nil {
		s.signOutLocked(ctx)
		s.logger.Errorw("profile check failed", "address", address, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCheckFailed, err)
	}

	if err := s.ledger.Bind(ctx, address); err != nil {
		s.signOutLocked(ctx)
		return nil, fmt.Errorf("failed to bind ledger: %w", err)
	}

	s.state = models.SessionSignedIn
	s.hasProfile = hasProfile
	s.lastSignIn = s.clock.Now()

	if err := s.repo.SaveSession(ctx, &models.SessionRecord{
		Address:    address,
		HasProfile: hasProfile,
		LastSignIn: s.lastSignIn,
	}); err != nil {
		// Session is live either way; the persisted flag only matters
		// across restarts.
		s.logger.Warnw("failed to persist session", "error", err)
	}

	s.logger.Infow("signed in", "address", address, "hasProfile", hasProfile)
	return s.infoLocked(), nil
}

// Disconnect flushes the ledger and clears the session.
func (s *sessionBinder) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.SessionSignedOut {
		return nil
	}

	s.generation++

	if err := s.ledger.Unbind(ctx); err != nil {
		return fmt.Errorf("failed to unbind ledger: %w", err)
	}

	if err := s.repo.SaveSession(ctx, nil); err != nil {
		s.logger.Warnw("failed to clear persisted session", "error", err)
	}

	s.logger.Infow("signed out", "address", s.address)
	s.state = models.SessionSignedOut
	s.address = ""
	s.hasProfile = false
	return nil
}

// Restore rehydrates a persisted session after a restart: the wallet is
// rebound to the ledger and the auth flags come back as they were saved.
// A missing persisted session is the normal cold-start case, not an error.
func (s *sessionBinder) Restore(ctx context.Context) error {
	record, err := s.repo.GetSession(ctx)
	if err != nil {
		if errors.Is(err, wallet.ErrNoSession) {
			return nil
		}
		return fmt.Errorf("failed to load persisted session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Bind(ctx, record.Address); err != nil {
		return fmt.Errorf("failed to rebind wallet %s: %w", record.Address, err)
	}

	s.generation++
	s.state = models.SessionSignedIn
	s.address = record.Address
	s.hasProfile = record.HasProfile
	s.lastSignIn = record.LastSignIn

	s.logger.Infow("restored session", "address", record.Address)
	return nil
}

// signOutLocked reverts to signedOut, releasing the ledger and clearing the
// persisted session. Caller must hold s.mu.
func (s *sessionBinder) signOutLocked(ctx context.Context) {
	if err := s.ledger.Unbind(ctx); err != nil {
		s.logger.Warnw("failed to unbind ledger", "error", err)
	}
	if err := s.repo.SaveSession(ctx, nil); err != nil {
		s.logger.Warnw("failed to clear persisted session", "error", err)
	}
	s.state = models.SessionSignedOut
	s.address = ""
	s.hasProfile = false
}

// Info returns the current session snapshot.
func (s *sessionBinder) Info() *SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked()
}

func (s *sessionBinder) infoLocked() *SessionInfo {
	return &SessionInfo{
		State:      s.state,
		Address:    s.address,
		HasProfile: s.hasProfile,
		LastSignIn: s.lastSignIn,
	}
}

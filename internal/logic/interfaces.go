package logic

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/synqtra/synqtra-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// LedgerService is the wallet-scoped points accumulator. At most one wallet
// is active at a time; mutations with no active wallet are silent no-ops.
type LedgerService interface {
	Bind(ctx context.Context, address string) error
	Unbind(ctx context.Context) error
	AddPoints(ctx context.Context, amount int64) error
	IncrementGamesPlayed(ctx context.Context) error
	CurrentTotal() int64
	CurrentGamesPlayed() int64
	ActiveWallet() (string, bool)
	Reset(ctx context.Context) error
}

// SessionService drives the signedOut -> checking -> signedIn state machine
// and binds the ledger to the connected wallet.
type SessionService interface {
	Connect(ctx context.Context, address string) (*SessionInfo, error)
	Disconnect(ctx context.Context) error
	Restore(ctx context.Context) error
	Info() *SessionInfo
}

// LeaderboardService derives ranked tier views from the wallet store.
type LeaderboardService interface {
	Project(ctx context.Context, tier models.Rank) ([]models.LeaderboardEntry, error)
	Overview(ctx context.Context) (*models.LeaderboardOverview, error)
}

// ProfileChecker reports whether an address owns an event profile. It is an
// explicit dependency so an on-chain lookup can slot in without touching the
// session flow.
type ProfileChecker interface {
	HasProfile(ctx context.Context, address string) (bool, error)
}

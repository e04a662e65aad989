package wallet

import (
	"context"

	"github.com/synqtra/synqtra-api/internal/models"
)

// Repository persists wallet point records keyed by address. Records survive
// process restarts and are never deleted.
type Repository interface {
	// Save writes a wallet record, creating it if absent.
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a wallet record by address. Returns ErrWalletNotFound
	// for addresses that have never been saved.
	Get(ctx context.Context, input *GetInput) (*models.WalletRecord, error)

	// List returns every known wallet record.
	List(ctx context.Context) ([]*models.WalletRecord, error)

	// GetSession retrieves the persisted auth session, or ErrNoSession.
	GetSession(ctx context.Context) (*models.SessionRecord, error)

	// SaveSession persists the auth session flag. A nil record clears it.
	SaveSession(ctx context.Context, record *models.SessionRecord) error
}

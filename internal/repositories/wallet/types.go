package wallet

import "github.com/synqtra/synqtra-api/internal/models"

// SaveInput holds parameters for Repository.Save
type SaveInput struct {
	Record *models.WalletRecord
}

// GetInput holds parameters for Repository.Get
type GetInput struct {
	Address string
}

package repo

import (
	"stockroom/internal/models"
)

// TransactionRepository persists the append-only stock-movement ledger.
// Ledger entries are created only through Apply, which also moves the owning
// product's quantity; entries are never mutated or deleted afterwards.
type TransactionRepository interface {
	// Apply records t and applies delta to the owning product's quantity as a
	// single atomic unit. Either both writes land or neither does. Returns the
	// created entry and the updated product, or ErrProductNotFound.
	Apply(t models.Transaction, delta int) (models.Transaction, models.Product, error)

	// GetAll returns the most recent entries first, each joined with its owning
	// product (nil for products deleted since).
	GetAll(limit int) ([]models.TransactionWithProduct, error)

	// GetByProductID returns the ledger history of one product, most recent
	// first, with the total count matching the filter.
	GetByProductID(productID int, tf TransactionFilter) ([]models.Transaction, int, error)
}

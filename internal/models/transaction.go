package models

import "time"

// Recognized transaction types. IN and OUT carry a positive quantity;
// ADJUSTMENT carries a signed correction delta.
const (
	TransactionIn         = "IN"
	TransactionOut        = "OUT"
	TransactionAdjustment = "ADJUSTMENT"
)

// Transaction is a single entry in the append-only stock-movement ledger.
type Transaction struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionWithProduct is a ledger entry joined with its owning product.
// Product is nil when the product has since been deleted.
type TransactionWithProduct struct {
	Transaction
	Product *Product `json:"product,omitempty"`
}

// Package inventory holds the stock-reconciliation engine: the one place
// where ledger entries and product quantities are allowed to change together.
package inventory

import (
	"fmt"
	"log"

	"stockroom/internal/models"
	"stockroom/internal/repo"
)

// Notifier is told when a product crosses its low-stock threshold.
type Notifier interface {
	LowStock(p models.Product)
}

// Service applies stock-movement transactions to products. The product's
// quantity stays derivable as the running sum of its ledger from a zero
// baseline, modulo explicit direct edits through the product update endpoint.
type Service struct {
	products repo.ProductRepository
	ledger   repo.TransactionRepository
	notifier Notifier
}

// NewService builds the reconciliation engine. notifier may be nil.
func NewService(products repo.ProductRepository, ledger repo.TransactionRepository, notifier Notifier) *Service {
	return &Service{products: products, ledger: ledger, notifier: notifier}
}

// TransactionInput is a request to record a stock movement.
type TransactionInput struct {
	ProductID int
	Type      string
	Quantity  int
}

// ValidationError reports the first offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LowStock reports whether a product is at or below its configured threshold.
func LowStock(p models.Product) bool {
	return p.Quantity <= p.MinQuantity
}

// Delta maps a transaction type and quantity to the product-quantity change.
// IN receives stock, OUT consumes it, ADJUSTMENT is a signed correction
// applied as-is.
func Delta(transactionType string, quantity int) int {
	switch transactionType {
	case models.TransactionOut:
		return -quantity
	default:
		return quantity
	}
}

func validate(in TransactionInput) *ValidationError {
	switch in.Type {
	case models.TransactionIn, models.TransactionOut:
		if in.Quantity <= 0 {
			return &ValidationError{Field: "quantity", Message: "quantity must be a positive integer"}
		}
	case models.TransactionAdjustment:
		if in.Quantity == 0 {
			return &ValidationError{Field: "quantity", Message: "adjustment quantity must not be zero"}
		}
	default:
		return &ValidationError{Field: "type", Message: "type must be one of IN, OUT, ADJUSTMENT"}
	}
	return nil
}

// Apply records the movement and updates the owning product's quantity as one
// atomic unit. It returns repo.ErrProductNotFound for an unknown product and
// *ValidationError for malformed input; in both cases nothing is written.
// An OUT may drive the quantity negative: over-consumption is surfaced rather
// than clamped.
func (s *Service) Apply(in TransactionInput) (models.Transaction, models.Product, error) {
	if in.ProductID <= 0 {
		return models.Transaction{}, models.Product{}, &ValidationError{Field: "product_id", Message: "product_id is required"}
	}
	if _, err := s.products.GetByID(in.ProductID); err != nil {
		return models.Transaction{}, models.Product{}, err
	}
	if verr := validate(in); verr != nil {
		return models.Transaction{}, models.Product{}, verr
	}

	t := models.Transaction{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
	}
	created, product, err := s.ledger.Apply(t, Delta(in.Type, in.Quantity))
	if err != nil {
		return models.Transaction{}, models.Product{}, err
	}

	if LowStock(product) {
		log.Printf("⚠️ ALERT: Product %d (%s) is at or below threshold! Qty=%d, MinQty=%d",
			product.ID, product.Name, product.Quantity, product.MinQuantity)
		if s.notifier != nil {
			s.notifier.LowStock(product)
		}
	}

	return created, product, nil
}

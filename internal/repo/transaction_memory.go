package repo

import (
	"sync"
	"time"

	"stockroom/internal/models"
)

// InMemoryTransactionRepository is an in-memory ledger paired with an
// InMemoryProductRepository, mirroring the atomicity of the postgres
// implementation through mutexes.
type InMemoryTransactionRepository struct {
	mu           sync.Mutex
	transactions []models.Transaction
	products     *InMemoryProductRepository
	nextID       int
}

func NewInMemoryTransactionRepository(products *InMemoryProductRepository) *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{
		transactions: []models.Transaction{},
		products:     products,
		nextID:       1,
	}
}

func (r *InMemoryTransactionRepository) Apply(t models.Transaction, delta int) (models.Transaction, models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p, err := r.products.AdjustQuantity(t.ProductID, delta, now)
	if err != nil {
		return models.Transaction{}, models.Product{}, err
	}

	t.ID = r.nextID
	t.Timestamp = now
	r.nextID++
	r.transactions = append(r.transactions, t)
	return t, p, nil
}

func (r *InMemoryTransactionRepository) GetAll(limit int) ([]models.TransactionWithProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.TransactionWithProduct
	// ledger is append-only, so reverse order is newest first
	for i := len(r.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		twp := models.TransactionWithProduct{Transaction: r.transactions[i]}
		if p, err := r.products.GetByID(twp.ProductID); err == nil {
			twp.Product = &p
		}
		out = append(out, twp)
	}
	return out, nil
}

func (r *InMemoryTransactionRepository) GetByProductID(productID int, tf TransactionFilter) ([]models.Transaction, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Transaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		t := r.transactions[i]
		if t.ProductID != productID {
			continue
		}
		if (tf.Since != nil && t.Timestamp.Before(*tf.Since)) ||
			(tf.Until != nil && t.Timestamp.After(*tf.Until)) {
			continue
		}
		filtered = append(filtered, t)
	}

	start := 0
	if tf.Offset != nil {
		start = clamp(*tf.Offset, 0, len(filtered))
	}
	end := len(filtered)
	if tf.Limit != nil && *tf.Limit > 0 {
		end = clamp(start+*tf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryTransactionRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = []models.Transaction{}
}

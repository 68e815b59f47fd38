package repo

import "stockroom/internal/models"

type InMemoryMetricsRepository struct {
	products     ProductRepository
	transactions TransactionRepository
}

func NewInMemoryMetricsRepository(products ProductRepository, transactions TransactionRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{products: products, transactions: transactions}
}

// GetDashboardMetrics implements MetricsRepository by recomputing the
// aggregates from the backing repositories.
func (r *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	var m Metrics

	products, err := r.products.GetAll()
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	for _, p := range products {
		m.TotalStockUnits += p.Quantity
		if p.Quantity <= p.MinQuantity {
			m.LowStockCount++
		}
	}

	for _, p := range products {
		count, err := r.transactionCount(p)
		if err != nil {
			return m, err
		}
		m.TotalTransactions += count
		if count > m.MostMovedProduct.TransactionCount {
			m.MostMovedProduct.Name = p.Name
			m.MostMovedProduct.TransactionCount = count
		}
	}

	return m, nil
}

func (r *InMemoryMetricsRepository) transactionCount(p models.Product) (int, error) {
	zero := 0
	_, count, err := r.transactions.GetByProductID(p.ID, TransactionFilter{Limit: &zero})
	return count, err
}

package repo

type MostMovedProduct struct {
	Name             string `json:"name"`
	TransactionCount int    `json:"transaction_count"`
}

// Metrics are the dashboard aggregates. They are recomputed on every read;
// nothing here is cached.
type Metrics struct {
	TotalProducts     int              `json:"total_products"`
	TotalStockUnits   int              `json:"total_stock_units"`
	LowStockCount     int              `json:"low_stock_count"`
	TotalTransactions int              `json:"total_transactions"`
	MostMovedProduct  MostMovedProduct `json:"most_moved_product"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}

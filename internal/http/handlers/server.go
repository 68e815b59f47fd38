package handlers

import (
	"stockroom/internal/inventory"
	"stockroom/internal/repo"
)

// Server carries the handler dependencies. Repositories are injected at
// startup instead of living in package globals, so tests can run against the
// in-memory implementations without shared state.
type Server struct {
	products     repo.ProductRepository
	transactions repo.TransactionRepository
	users        repo.UserRepository
	metrics      repo.MetricsRepository
	inventory    *inventory.Service
}

func NewServer(
	products repo.ProductRepository,
	transactions repo.TransactionRepository,
	users repo.UserRepository,
	metrics repo.MetricsRepository,
	inv *inventory.Service,
) *Server {
	return &Server{
		products:     products,
		transactions: transactions,
		users:        users,
		metrics:      metrics,
		inventory:    inv,
	}
}

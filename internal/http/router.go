package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "stockroom/docs"
	"stockroom/internal/http/handlers"
)

func NewRouter(s *handlers.Server) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(RateLimit)
		r.Post("/register", s.RegisterHandler)
		r.Post("/login", s.LoginHandler)
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)

		r.Post("/products", s.CreateProductHandler)
		r.Get("/products", s.GetProductsHandler)
		r.Get("/products/search", s.FilterProductsHandler)
		r.Post("/products/import", s.ImportProductsHandler)
		r.Get("/products/sku/{sku}", s.GetProductBySKUHandler)
		r.Get("/products/{id}", s.GetProductByIDHandler)
		r.Put("/products/{id}", s.UpdateProductHandler)
		r.Delete("/products/{id}", s.DeleteProductHandler)
		r.Get("/products/{id}/transactions", s.GetProductTransactionsHandler)
		r.Get("/products/{id}/transactions/export", s.ExportTransactionsHandler)

		r.Get("/transactions", s.GetTransactionsHandler)
		r.Post("/transactions", s.CreateTransactionHandler)

		r.Get("/metrics/dashboard", s.GetDashboardMetricsHandler)
	})

	return r
}

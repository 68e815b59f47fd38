package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"stockroom/internal/models"
	"stockroom/internal/repo"
)

const defaultMinQuantity = 5

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a stock-keeping unit to the catalog
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Router /products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input", "")
		return
	}

	product := models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		MinQuantity: defaultMinQuantity,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		UpdatedAt:   time.Now().UTC(),
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.MinQuantity != nil {
		product.MinQuantity = *req.MinQuantity
	}

	if errs := validateProduct(product); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0].Message, errs[0].Field)
		return
	}

	created, err := s.products.Create(product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateSKU) {
			writeError(w, http.StatusBadRequest, "SKU must be unique", "sku")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not create product", "")
		return
	}

	_ = writeJSON(w, http.StatusCreated, productResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products ordered by name
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProductResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.GetAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not fetch products", "")
		return
	}
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = productResponse(p)
	}
	_ = writeJSON(w, http.StatusOK, response)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", "id")
		return
	}

	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not fetch product", "")
		return
	}
	_ = writeJSON(w, http.StatusOK, productResponse(product))
}

// GetProductBySKUHandler godoc
// @Summary Get product by SKU
// @Description Resolves a scanned barcode to its product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param sku path string true "Product SKU"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/sku/{sku} [get]
func (s *Server) GetProductBySKUHandler(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	product, err := s.products.GetBySKU(sku)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not fetch product", "")
		return
	}
	_ = writeJSON(w, http.StatusOK, productResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Merges the supplied fields into the product. Quantity edits here bypass the ledger.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body UpdateProductRequest true "Fields to update"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [put]
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", "id")
		return
	}

	var req UpdateProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input", "")
		return
	}

	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not fetch product", "")
		return
	}

	if errs := validateProductUpdate(req); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0].Message, errs[0].Field)
		return
	}

	mergeProduct(&product, req)
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.products.Update(product)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "Product not found", "")
		case errors.Is(err, repo.ErrDuplicateSKU):
			writeError(w, http.StatusBadRequest, "SKU must be unique", "sku")
		default:
			writeError(w, http.StatusInternalServerError, "could not update product", "")
		}
		return
	}

	_ = writeJSON(w, http.StatusOK, productResponse(updated))
}

func mergeProduct(p *models.Product, req UpdateProductRequest) {
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.MinQuantity != nil {
		p.MinQuantity = *req.MinQuantity
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Idempotent; ledger entries for the product are kept
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {object} ErrorResponse
// @Router /products/{id} [delete]
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", "id")
		return
	}

	if err := s.products.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "could not delete product", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// FilterProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param name query string false "Filter by name"
// @Param minQty query int false "Minimum quantity"
// @Param maxQty query int false "Maximum quantity"
// @Param lowStock query bool false "Only products at or below their threshold"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/search [get]
func (s *Server) FilterProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.ProductFilter{
		Name:     q.Get("name"),
		MinQty:   parseIntPtr(q.Get("minQty")),
		MaxQty:   parseIntPtr(q.Get("maxQty")),
		LowStock: q.Get("lowStock") == "true",
		Offset:   parseIntPtr(q.Get("offset")),
		Limit:    parseIntPtr(q.Get("limit")),
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be greater than zero", "limit")
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be zero or positive", "offset")
		return
	}

	products, total, err := s.products.Filter(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not filter products", "")
		return
	}

	resp := ProductsSearchResult{
		Data: make([]ProductResponse, len(products)),
		Meta: Meta{TotalCount: total},
	}
	for i, p := range products {
		resp.Data[i] = productResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

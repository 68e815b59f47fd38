package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"stockroom/internal/inventory"
	"stockroom/internal/repo"
)

const defaultTransactionsLimit = 50

// CreateTransactionHandler godoc
// @Summary Record a stock movement
// @Description Appends a ledger entry and updates the product quantity atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body TransactionRequest true "Movement to record"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions [post]
func (s *Server) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input", "")
		return
	}

	created, _, err := s.inventory.Apply(inventory.TransactionInput{
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
	})
	if err != nil {
		var verr *inventory.ValidationError
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "Product not found", "")
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message, verr.Field)
		default:
			log.Printf("could not record transaction: %v", err)
			writeError(w, http.StatusInternalServerError, "could not record transaction", "")
		}
		return
	}

	_ = writeJSON(w, http.StatusCreated, transactionResponse(created, nil))
}

// GetTransactionsHandler godoc
// @Summary List recent stock movements
// @Description Most recent first, joined with the owning product when it still exists
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries to return (default 50)"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions [get]
func (s *Server) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultTransactionsLimit
	if v := parseIntPtr(r.URL.Query().Get("limit")); v != nil {
		if *v <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be greater than zero", "limit")
			return
		}
		limit = *v
	}

	transactions, err := s.transactions.GetAll(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not fetch transactions", "")
		return
	}

	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = transactionResponse(t.Transaction, t.Product)
	}
	_ = writeJSON(w, http.StatusOK, response)
}

// restorePlusOffset reverses the substitution of + for space in RFC3339 query
// parameters. URL query decoding turns +02:00 into " 02:00", which time.Parse
// rejects.
func restorePlusOffset(s string) string {
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		return s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	return s
}

func parseTimeRange(r *http.Request) (since, until *time.Time, err error) {
	sinceStr := restorePlusOffset(r.URL.Query().Get("since"))
	untilStr := restorePlusOffset(r.URL.Query().Get("until"))

	if sinceStr != "" {
		ts, perr := time.Parse(time.RFC3339, sinceStr)
		if perr != nil {
			return nil, nil, errors.New("invalid since date format")
		}
		since = &ts
	}
	if untilStr != "" {
		ts, perr := time.Parse(time.RFC3339, untilStr)
		if perr != nil {
			return nil, nil, errors.New("invalid until date format")
		}
		until = &ts
	}
	return since, until, nil
}

// GetProductTransactionsHandler godoc
// @Summary Get a product's ledger history
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param since query string false "Filter entries from this timestamp (RFC3339)"
// @Param until query string false "Filter entries until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} TransactionsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id}/transactions [get]
func (s *Server) GetProductTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", "id")
		return
	}

	if _, err := s.products.GetByID(id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not fetch product", "")
		return
	}

	since, until, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	limit := parseIntPtr(r.URL.Query().Get("limit"))
	if limit != nil && *limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be greater than zero", "limit")
		return
	}
	offset := parseIntPtr(r.URL.Query().Get("offset"))
	if offset != nil && *offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be zero or positive", "offset")
		return
	}

	transactions, total, err := s.transactions.GetByProductID(id, repo.TransactionFilter{
		Since:  since,
		Until:  until,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		log.Printf("could not retrieve transactions for product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not retrieve transactions", "")
		return
	}

	response := TransactionsSearchResult{
		Data: make([]TransactionResponse, len(transactions)),
		Meta: Meta{TotalCount: total},
	}
	for i, t := range transactions {
		response.Data[i] = transactionResponse(t, nil)
	}

	_ = writeJSON(w, http.StatusOK, response)
}

// ExportTransactionsHandler godoc
// @Summary Export a product's ledger history
// @Tags transactions
// @Produce text/csv, application/json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from timestamp (RFC3339)"
// @Param until query string false "Filter until timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id}/transactions/export [get]
func (s *Server) ExportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", "id")
		return
	}

	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		writeError(w, http.StatusBadRequest, "format must be 'csv' or 'json'", "format")
		return
	}

	since, until, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	transactions, _, err := s.transactions.GetByProductID(id, repo.TransactionFilter{Since: since, Until: until})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not retrieve transactions", "")
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.json"`)
		_ = json.NewEncoder(w).Encode(transactions)

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "type", "quantity", "timestamp"})
		for _, t := range transactions {
			_ = csvWriter.Write([]string{
				strconv.Itoa(t.ID),
				strconv.Itoa(t.ProductID),
				t.Type,
				strconv.Itoa(t.Quantity),
				t.Timestamp.Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
	}
}

package handlers_integrated_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	handler "stockroom/internal/http/handlers"
	"stockroom/internal/models"
)

func seedProduct(t *testing.T, quantity int) handler.ProductResponse {
	t.Helper()
	w := createProduct(handler.ProductRequest{SKU: "WIDGET-001", Name: "Standard Widget", Quantity: intPtr(quantity)})
	if w.Code != http.StatusCreated {
		t.Fatalf("error creating product: %d %s", w.Code, w.Body.String())
	}
	var p handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&p)
	return p
}

func TestTransactionUpdatesQuantityAtomically(t *testing.T) {
	clearAllProducts()
	p := seedProduct(t, 0)

	for _, tr := range []handler.TransactionRequest{
		{ProductID: p.ID, Type: models.TransactionIn, Quantity: 150},
		{ProductID: p.ID, Type: models.TransactionOut, Quantity: 30},
		{ProductID: p.ID, Type: models.TransactionAdjustment, Quantity: -5},
	} {
		if w := applyTransaction(tr); w.Code != http.StatusCreated {
			t.Fatalf("expected status 201 for %+v, got %d: %s", tr, w.Code, w.Body.String())
		}
	}

	w := doRequest(http.MethodGet, fmt.Sprintf("/products/%d", p.ID), nil)
	var updated handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.Quantity != 115 {
		t.Errorf("expected final quantity 115, got %d", updated.Quantity)
	}

	w = doRequest(http.MethodGet, fmt.Sprintf("/products/%d/transactions", p.ID), nil)
	var history handler.TransactionsSearchResult
	json.NewDecoder(w.Body).Decode(&history)
	if history.Meta.TotalCount != 3 {
		t.Errorf("expected 3 ledger entries, got %d", history.Meta.TotalCount)
	}
}

func TestTransactionRejectedEntryWritesNothing(t *testing.T) {
	clearAllProducts()
	p := seedProduct(t, 100)

	if w := applyTransaction(handler.TransactionRequest{ProductID: p.ID, Type: models.TransactionIn, Quantity: 0}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if w := applyTransaction(handler.TransactionRequest{ProductID: 999999, Type: models.TransactionIn, Quantity: 5}); w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	w := doRequest(http.MethodGet, fmt.Sprintf("/products/%d", p.ID), nil)
	var updated handler.ProductResponse
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.Quantity != 100 {
		t.Errorf("quantity changed to %d on rejected transactions", updated.Quantity)
	}

	var entries []handler.TransactionResponse
	w = doRequest(http.MethodGet, "/transactions", nil)
	json.NewDecoder(w.Body).Decode(&entries)
	if len(entries) != 0 {
		t.Errorf("expected no persisted entries, got %d", len(entries))
	}
}

func TestTransactionLedgerSurvivesProductDelete(t *testing.T) {
	clearAllProducts()
	p := seedProduct(t, 100)
	applyTransaction(handler.TransactionRequest{ProductID: p.ID, Type: models.TransactionIn, Quantity: 1})

	if w := doRequest(http.MethodDelete, fmt.Sprintf("/products/%d", p.ID), nil); w.Code != http.StatusNoContent {
		t.Fatalf("error deleting product: %d", w.Code)
	}

	w := doRequest(http.MethodGet, "/transactions", nil)
	var entries []handler.TransactionResponse
	json.NewDecoder(w.Body).Decode(&entries)
	if len(entries) != 1 {
		t.Fatalf("expected the orphaned entry to survive, got %d entries", len(entries))
	}
	if entries[0].Product != nil {
		t.Errorf("expected no product on orphaned entry, got %+v", entries[0].Product)
	}
}

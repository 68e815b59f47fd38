package repo

import (
	"errors"
	"testing"

	"stockroom/internal/models"
)

func newLedger(t *testing.T) (*InMemoryTransactionRepository, models.Product) {
	t.Helper()
	products := NewInMemoryProductRepository()
	p, err := products.Create(testProduct("WIDGET-001", "Standard Widget", 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewInMemoryTransactionRepository(products), p
}

func TestLedgerApply(t *testing.T) {
	ledger, p := newLedger(t)

	created, updated, err := ledger.Apply(models.Transaction{ProductID: p.ID, Type: models.TransactionIn, Quantity: 10}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 || created.Timestamp.IsZero() {
		t.Errorf("expected server-assigned id and timestamp, got %+v", created)
	}
	if updated.Quantity != 110 {
		t.Errorf("expected quantity 110, got %d", updated.Quantity)
	}
}

func TestLedgerApplyUnknownProduct(t *testing.T) {
	ledger, _ := newLedger(t)

	_, _, err := ledger.Apply(models.Transaction{ProductID: 999, Type: models.TransactionIn, Quantity: 10}, 10)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	entries, _ := ledger.GetAll(100)
	if len(entries) != 0 {
		t.Errorf("expected no persisted entries, got %d", len(entries))
	}
}

func TestLedgerGetAllNewestFirstWithProduct(t *testing.T) {
	ledger, p := newLedger(t)
	ledger.Apply(models.Transaction{ProductID: p.ID, Type: models.TransactionIn, Quantity: 1}, 1)
	ledger.Apply(models.Transaction{ProductID: p.ID, Type: models.TransactionOut, Quantity: 2}, -2)

	entries, err := ledger.GetAll(50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Type != models.TransactionOut {
		t.Errorf("expected newest entry first, got %+v", entries[0])
	}
	if entries[0].Product == nil || entries[0].Product.SKU != "WIDGET-001" {
		t.Errorf("expected joined product, got %+v", entries[0].Product)
	}
}

func TestLedgerGetAllHonorsLimit(t *testing.T) {
	ledger, p := newLedger(t)
	for i := 0; i < 5; i++ {
		ledger.Apply(models.Transaction{ProductID: p.ID, Type: models.TransactionIn, Quantity: 1}, 1)
	}

	entries, _ := ledger.GetAll(3)
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestLedgerKeepsEntriesForDeletedProduct(t *testing.T) {
	products := NewInMemoryProductRepository()
	p, _ := products.Create(testProduct("WIDGET-001", "Standard Widget", 100))
	ledger := NewInMemoryTransactionRepository(products)
	ledger.Apply(models.Transaction{ProductID: p.ID, Type: models.TransactionIn, Quantity: 1}, 1)

	if err := products.Delete(p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, _ := ledger.GetAll(50)
	if len(entries) != 1 {
		t.Fatalf("expected the orphaned entry to survive, got %d entries", len(entries))
	}
	if entries[0].Product != nil {
		t.Errorf("expected nil product for orphaned entry, got %+v", entries[0].Product)
	}
}

func TestLedgerGetByProductIDPagination(t *testing.T) {
	ledger, p := newLedger(t)
	for i := 0; i < 5; i++ {
		ledger.Apply(models.Transaction{ProductID: p.ID, Type: models.TransactionIn, Quantity: 1}, 1)
	}

	two, offset := 2, 4
	entries, total, err := ledger.GetByProductID(p.ID, TransactionFilter{Limit: &two, Offset: &offset})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry past offset 4, got %d", len(entries))
	}
}

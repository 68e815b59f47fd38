package repo

import (
	"errors"
	"testing"
	"time"

	"stockroom/internal/models"
)

func testProduct(sku, name string, quantity int) models.Product {
	return models.Product{
		SKU:         sku,
		Name:        name,
		Quantity:    quantity,
		MinQuantity: 5,
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestInMemoryProductCreateAssignsID(t *testing.T) {
	r := NewInMemoryProductRepository()

	created, err := r.Create(testProduct("WIDGET-001", "Standard Widget", 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected ID 1, got %d", created.ID)
	}
	if created.Quantity != 150 {
		t.Errorf("expected quantity 150, got %d", created.Quantity)
	}
}

func TestInMemoryProductDuplicateSKU(t *testing.T) {
	r := NewInMemoryProductRepository()

	if _, err := r.Create(testProduct("WIDGET-001", "Standard Widget", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := r.Create(testProduct("WIDGET-001", "Other Widget", 2))
	if !errors.Is(err, ErrDuplicateSKU) {
		t.Errorf("expected ErrDuplicateSKU, got %v", err)
	}
}

func TestInMemoryProductGetAllOrderedByName(t *testing.T) {
	r := NewInMemoryProductRepository()
	r.Create(testProduct("SENSOR-PROX", "Proximity Sensor", 5))
	r.Create(testProduct("BOLT-M8", "M8 Hex Bolt", 10))

	products, err := r.GetAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "M8 Hex Bolt" || products[1].Name != "Proximity Sensor" {
		t.Errorf("products not ordered by name: %v, %v", products[0].Name, products[1].Name)
	}
}

func TestInMemoryProductGetBySKU(t *testing.T) {
	r := NewInMemoryProductRepository()
	created, _ := r.Create(testProduct("BOLT-M8", "M8 Hex Bolt", 10))

	found, err := r.GetBySKU("BOLT-M8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("expected ID %d, got %d", created.ID, found.ID)
	}

	if _, err := r.GetBySKU("NOPE"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestInMemoryProductDeleteIsIdempotent(t *testing.T) {
	r := NewInMemoryProductRepository()
	created, _ := r.Create(testProduct("WIDGET-001", "Standard Widget", 1))

	if err := r.Delete(created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Delete(created.ID); err != nil {
		t.Errorf("expected deleting an absent product to succeed, got %v", err)
	}
}

func TestInMemoryProductUpdateRejectsDuplicateSKU(t *testing.T) {
	r := NewInMemoryProductRepository()
	r.Create(testProduct("WIDGET-001", "Standard Widget", 1))
	other, _ := r.Create(testProduct("BOLT-M8", "M8 Hex Bolt", 1))

	other.SKU = "WIDGET-001"
	if _, err := r.Update(other); !errors.Is(err, ErrDuplicateSKU) {
		t.Errorf("expected ErrDuplicateSKU, got %v", err)
	}
}

func TestInMemoryProductFilter(t *testing.T) {
	r := NewInMemoryProductRepository()
	r.Create(testProduct("WIDGET-001", "Standard Widget", 150))
	r.Create(testProduct("BOLT-M8", "M8 Hex Bolt", 3))
	r.Create(testProduct("SENSOR-PROX", "Proximity Sensor", 40))

	t.Run("by name substring", func(t *testing.T) {
		found, total, err := r.Filter(ProductFilter{Name: "widget"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 || len(found) != 1 || found[0].SKU != "WIDGET-001" {
			t.Errorf("expected only the widget, got %+v (total %d)", found, total)
		}
	})

	t.Run("low stock only", func(t *testing.T) {
		found, total, err := r.Filter(ProductFilter{LowStock: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 || len(found) != 1 || found[0].SKU != "BOLT-M8" {
			t.Errorf("expected only the bolt, got %+v (total %d)", found, total)
		}
	})

	t.Run("pagination keeps total", func(t *testing.T) {
		one := 1
		found, total, err := r.Filter(ProductFilter{Limit: &one, Offset: &one})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 3 || len(found) != 1 {
			t.Errorf("expected 1 of 3, got %d of %d", len(found), total)
		}
	})
}

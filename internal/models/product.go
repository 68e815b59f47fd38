package models

import "time"

// Product represents a stock-keeping unit tracked by the inventory.
// Quantity is mutated through the reconciliation engine; direct edits via the
// update endpoint are allowed as an explicit override.
type Product struct {
	ID          int       `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

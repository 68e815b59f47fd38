package handlers

import (
	"strings"

	"stockroom/internal/models"
)

type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// validateProductUpdate checks only the fields present in a partial edit.
// Fields the client did not send are never validated: a product whose
// quantity has gone negative through the ledger stays editable as long as the
// request leaves the quantity alone.
func validateProductUpdate(req UpdateProductRequest) []ValidationError {
	var errs []ValidationError
	if req.SKU != nil && strings.TrimSpace(*req.SKU) == "" {
		errs = append(errs, ValidationError{Field: "sku", Message: "SKU is required"})
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "Name is required"})
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		errs = append(errs, ValidationError{Field: "quantity", Message: "Quantity cannot be negative"})
	}
	if req.MinQuantity != nil && *req.MinQuantity < 0 {
		errs = append(errs, ValidationError{Field: "min_quantity", Message: "Minimum quantity cannot be negative"})
	}
	return errs
}

func validateProduct(p models.Product) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(p.SKU) == "" {
		errs = append(errs, ValidationError{Field: "sku", Message: "SKU is required"})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "Name is required"})
	}
	if p.Quantity < 0 {
		errs = append(errs, ValidationError{Field: "quantity", Message: "Quantity cannot be negative"})
	}
	if p.MinQuantity < 0 {
		errs = append(errs, ValidationError{Field: "min_quantity", Message: "Minimum quantity cannot be negative"})
	}
	return errs
}

package handlers

import "time"

type ProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    *int   `json:"quantity"`
	MinQuantity *int   `json:"min_quantity"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
}

// UpdateProductRequest carries a partial edit; nil fields are left untouched.
type UpdateProductRequest struct {
	SKU         *string `json:"sku"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"`
	MinQuantity *int    `json:"min_quantity"`
	Location    *string `json:"location"`
	ImageURL    *string `json:"image_url"`
}

type ProductResponse struct {
	ID          int       `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	LowStock    bool      `json:"low_stock"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type TransactionRequest struct {
	ProductID int    `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
}

type TransactionResponse struct {
	ID        int              `json:"id"`
	ProductID int              `json:"product_id"`
	Type      string           `json:"type"`
	Quantity  int              `json:"quantity"`
	Timestamp time.Time        `json:"timestamp"`
	Product   *ProductResponse `json:"product,omitempty"`
}

type TransactionsSearchResult struct {
	Data []TransactionResponse `json:"data"`
	Meta Meta                  `json:"meta,omitempty"`
}

// ErrorResponse is the error shape for client-correctable failures: a human
// message plus the machine-readable name of the first offending field.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int               `json:"imported"`
	Errors                []ValidationError `json:"errors"`
}

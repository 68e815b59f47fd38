package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stockroom/internal/models"
	"stockroom/internal/repo"
)

type csvRow struct {
	SKU         string
	Name        string
	Description string
	Quantity    int
	MinQuantity int
	Location    string
}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sku", "name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := csvRow{
			SKU:         field(record, "sku"),
			Name:        field(record, "name"),
			Description: field(record, "description"),
			Quantity:    parseInt(field(record, "quantity")),
			MinQuantity: parseInt(field(record, "min_quantity")),
			Location:    field(record, "location"),
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if strings.TrimSpace(r.SKU) == "" {
		return errors.New("missing sku")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("missing name")
	}
	if r.Quantity < 0 {
		return errors.New("invalid quantity")
	}
	if r.MinQuantity < 0 {
		return errors.New("invalid min_quantity")
	}
	return nil
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: sku, name, description, quantity, min_quantity, location
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/import [post]
func (s *Server) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file", "file")
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "file")
		return
	}

	var imported int
	var errorsList []ValidationError

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		if err := validateRow(rec); err != nil {
			errorsList = append(errorsList, ValidationError{Message: fmt.Sprintf("row %d: %v", rowNum, err)})
			continue
		}

		existing, err := s.products.GetBySKU(rec.SKU)
		if err == nil && existing.ID != 0 {
			if mode == "skip" {
				errorsList = append(errorsList, ValidationError{Message: fmt.Sprintf("row %d: product '%s' already exists", rowNum, rec.SKU)})
				continue
			}
			existing.Name = rec.Name
			existing.Description = rec.Description
			existing.Quantity = rec.Quantity
			existing.MinQuantity = rec.MinQuantity
			existing.Location = rec.Location
			existing.UpdatedAt = time.Now().UTC()
			if _, err := s.products.Update(existing); err != nil {
				errorsList = append(errorsList, ValidationError{Message: fmt.Sprintf("row %d: failed to update '%s'", rowNum, rec.SKU)})
				continue
			}
			imported++
			continue
		}
		if err != nil && !errors.Is(err, repo.ErrProductNotFound) {
			errorsList = append(errorsList, ValidationError{Message: fmt.Sprintf("row %d: %v", rowNum, err)})
			continue
		}

		newProduct := models.Product{
			SKU:         rec.SKU,
			Name:        rec.Name,
			Description: rec.Description,
			Quantity:    rec.Quantity,
			MinQuantity: rec.MinQuantity,
			Location:    rec.Location,
			UpdatedAt:   time.Now().UTC(),
		}
		if _, err := s.products.Create(newProduct); err != nil {
			errorsList = append(errorsList, ValidationError{Message: fmt.Sprintf("row %d: %v", rowNum, err)})
			continue
		}
		imported++
	}

	_ = writeJSON(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}

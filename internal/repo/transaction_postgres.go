package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stockroom/internal/models"
)

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

// Apply inserts the ledger entry and moves the product quantity inside one
// database transaction. The quantity change is expressed as an in-place
// increment so concurrent applies against the same product cannot lose
// updates. No floor is enforced on the resulting quantity.
func (r *PostgresTransactionRepository) Apply(t models.Transaction, delta int) (models.Transaction, models.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, models.Product{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `INSERT INTO transactions (product_id, type, quantity, timestamp)
		VALUES ($1, $2, $3, $4) RETURNING id, timestamp`
	t.Timestamp = time.Now().UTC()
	if err := tx.QueryRowContext(ctx, insert, t.ProductID, t.Type, t.Quantity, t.Timestamp).
		Scan(&t.ID, &t.Timestamp); err != nil {
		return models.Transaction{}, models.Product{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	update := `UPDATE products SET quantity = quantity + $1, updated_at = $2
		WHERE id = $3 RETURNING ` + productColumns
	p, err := scanProduct(tx.QueryRowContext(ctx, update, delta, time.Now().UTC(), t.ProductID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Transaction{}, models.Product{}, fmt.Errorf("failed to apply quantity change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Transaction{}, models.Product{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, p, nil
}

// GetAll returns the most recent ledger entries, LEFT JOINed with products so
// entries for deleted products survive with a nil product.
func (r *PostgresTransactionRepository) GetAll(limit int) ([]models.TransactionWithProduct, error) {
	query := `SELECT t.id, t.product_id, t.type, t.quantity, t.timestamp,
			p.id, p.sku, p.name, p.description, p.quantity, p.min_quantity, p.location, p.image_url, p.updated_at
		FROM transactions t
		LEFT JOIN products p ON p.id = t.product_id
		ORDER BY t.timestamp DESC
		LIMIT $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TransactionWithProduct
	for rows.Next() {
		var twp models.TransactionWithProduct
		var (
			pID          sql.NullInt64
			pSKU         sql.NullString
			pName        sql.NullString
			pDescription sql.NullString
			pQuantity    sql.NullInt64
			pMinQuantity sql.NullInt64
			pLocation    sql.NullString
			pImageURL    sql.NullString
			pUpdatedAt   sql.NullTime
		)
		if err := rows.Scan(&twp.ID, &twp.ProductID, &twp.Type, &twp.Quantity, &twp.Timestamp,
			&pID, &pSKU, &pName, &pDescription, &pQuantity, &pMinQuantity, &pLocation, &pImageURL, &pUpdatedAt); err != nil {
			return nil, err
		}
		if pID.Valid {
			twp.Product = &models.Product{
				ID:          int(pID.Int64),
				SKU:         pSKU.String,
				Name:        pName.String,
				Description: pDescription.String,
				Quantity:    int(pQuantity.Int64),
				MinQuantity: int(pMinQuantity.Int64),
				Location:    pLocation.String,
				ImageURL:    pImageURL.String,
				UpdatedAt:   pUpdatedAt.Time,
			}
		}
		out = append(out, twp)
	}
	return out, rows.Err()
}

const defaultHistoryLimit = 100

// GetByProductID returns the ledger history for one product, optionally
// bounded by time range and paginated.
func (r *PostgresTransactionRepository) GetByProductID(productID int, tf TransactionFilter) ([]models.Transaction, int, error) {
	whereClause, args := r.buildWhereClause(productID, tf)

	total, err := r.getTotal(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	// limit = 0 means count only
	if tf.Limit != nil && *tf.Limit == 0 {
		return []models.Transaction{}, total, nil
	}

	if tf.Offset != nil && *tf.Offset >= total {
		return []models.Transaction{}, total, nil
	}

	query, queryArgs := r.buildMainQuery(whereClause, args, tf)
	transactions, err := r.executeQuery(query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return transactions, total, nil
}

func (r *PostgresTransactionRepository) buildWhereClause(productID int, tf TransactionFilter) (string, []any) {
	args := []any{productID}
	whereClause := "WHERE product_id = $1"
	argIndex := 2

	if tf.Since != nil {
		whereClause += fmt.Sprintf(" AND timestamp >= $%d", argIndex)
		args = append(args, *tf.Since)
		argIndex++
	}

	if tf.Until != nil {
		whereClause += fmt.Sprintf(" AND timestamp <= $%d", argIndex)
		args = append(args, *tf.Until)
	}

	return whereClause, args
}

func (r *PostgresTransactionRepository) buildMainQuery(whereClause string, baseArgs []any, tf TransactionFilter) (string, []any) {
	query := fmt.Sprintf("SELECT id, product_id, type, quantity, timestamp FROM transactions %s ORDER BY timestamp DESC", whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	argIndex := len(baseArgs) + 1

	limit := defaultHistoryLimit
	if tf.Limit != nil && *tf.Limit > 0 {
		limit = min(*tf.Limit, defaultHistoryLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if tf.Offset != nil && *tf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *tf.Offset)
	}

	return query, args
}

func (r *PostgresTransactionRepository) getTotal(whereClause string, args []any) (int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", whereClause)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresTransactionRepository) executeQuery(query string, args []any) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.Timestamp); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/brian5Home/inventory-service/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, category, unit_price, stock_quantity, created_at, updated_at`

// PgStore implements ProductStore using PostgreSQL as the data store.
// ID uniqueness is guaranteed by the bigserial primary key: concurrent
// creates allocate from the same sequence and never collide.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves all products ordered by name ascending.
// It returns a slice of products, which may be empty if no products exist.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var product Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := p.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	var product Product
	if err := scanProduct(row, &product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// Create adds a new product to the system.
// Returns an error if the product cannot be created.
func (p *PgStore) Create(ctx context.Context, draft Product) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`INSERT INTO products (name, description, category, unit_price, stock_quantity, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+productColumns,
		draft.Name, draft.Description, draft.Category, draft.UnitPrice, draft.StockQuantity, draft.CreatedAt)
	var product Product
	if err := scanProduct(row, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// Update modifies an existing product's details and stamps updated_at.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, fields Product) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, description = $3, category = $4, unit_price = $5, stock_quantity = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, fields.Name, fields.Description, fields.Category, fields.UnitPrice, fields.StockQuantity)
	var product Product
	if err := scanProduct(row, &product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Count returns the total number of products.
func (p *PgStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := p.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// AggregateByCategory builds the per-category rollup with an explicit fold
// over the raw rows rather than pushing the grouping into SQL, so both store
// implementations share the same aggregation semantics.
func (p *PgStore) AggregateByCategory(ctx context.Context) (map[string]CategoryAggregate, error) {
	rows, err := p.db.Query(ctx, `SELECT category, unit_price, stock_quantity FROM products`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products for aggregation: %w", err)
	}
	defer rows.Close()

	aggregates := make(map[string]CategoryAggregate)
	for rows.Next() {
		var category string
		var unitPrice decimal.Decimal
		var stockQuantity int32
		if err := rows.Scan(&category, &unitPrice, &stockQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan aggregation row: %w", err)
		}
		agg := aggregates[category]
		agg.Count++
		agg.TotalValue = agg.TotalValue.Add(unitPrice.Mul(decimal.NewFromInt(int64(stockQuantity))))
		aggregates[category] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregation rows: %w", err)
	}
	return aggregates, nil
}

// CountBelowThreshold returns the number of products with stock quantity
// strictly below the given threshold.
func (p *PgStore) CountBelowThreshold(ctx context.Context, threshold int32) (int64, error) {
	var count int64
	if err := p.db.QueryRow(ctx, `SELECT count(*) FROM products WHERE stock_quantity < $1`, threshold).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count low-stock products: %w", err)
	}
	return count, nil
}

// scanProduct scans a full product row in productColumns order.
func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.UnitPrice,
		&p.StockQuantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

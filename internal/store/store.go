// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product record as the store persists it.
// ID is assigned by the store on creation and never reused. CreatedAt is set
// by the caller exactly once at creation; UpdatedAt is stamped by the store
// on every successful update and stays nil until then.
type Product struct {
	ID            int64
	Name          string
	Description   *string
	Category      string
	UnitPrice     decimal.Decimal
	StockQuantity int32
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// CategoryAggregate holds the per-category rollup used by the summary report:
// the number of products in the category and the sum of
// unitPrice * stockQuantity over them.
type CategoryAggregate struct {
	Count      int64
	TotalValue decimal.Decimal
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindAll returns all products ordered by name ascending.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// Create adds a new product, assigning it a unique ID. Concurrent creates
	// never produce duplicate IDs. The draft's ID and UpdatedAt are ignored.
	Create(ctx context.Context, draft Product) (*Product, error)

	// Update overwrites the mutable fields (name, description, category,
	// unitPrice, stockQuantity) of the product with the given ID and stamps
	// UpdatedAt. ID and CreatedAt are untouched.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, fields Product) (*Product, error)

	// DeleteByID removes a product by its ID (hard delete).
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the total number of products.
	Count(ctx context.Context) (int64, error)

	// AggregateByCategory returns a mapping from category to its rollup,
	// where TotalValue = sum(unitPrice * stockQuantity) over the category.
	AggregateByCategory(ctx context.Context) (map[string]CategoryAggregate, error)

	// CountBelowThreshold returns the number of products whose stock quantity
	// is strictly below the given threshold.
	CountBelowThreshold(ctx context.Context, threshold int32) (int64, error)
}

// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/brian5Home/inventory-service/internal/store"
	"github.com/brian5Home/inventory-service/pkg/money"
)

// defaultCategory is assigned when a request carries no category.
const defaultCategory = "General"

// lowStockThreshold is the fixed stock quantity below which a product counts
// as low-stock in the summary report.
const lowStockThreshold = 10

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products ordered by name ascending.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Create adds a new product, stamping its creation time.
	// Returns error if the product cannot be created.
	Create(ctx context.Context, product ProductSaveDto) (*ProductDto, error)

	// Update performs a full overwrite of the product's mutable fields.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductSaveDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Summary computes the inventory report: total product count, rollup per
	// category, and the low-stock count. Always computed fresh, never cached.
	Summary(ctx context.Context) (*SummaryDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// ProductSaveDto represents the request body for creating or fully replacing
// a product. ID and timestamps sent by the client are ignored; the store and
// service own those fields. Negative prices are not rejected.
type ProductSaveDto struct {
	Name          string      `json:"name"          validate:"required,max=200"`
	Description   *string     `json:"description"   validate:"omitempty,max=1000"`
	Category      string      `json:"category"      validate:"max=100"`
	UnitPrice     money.Money `json:"unitPrice"`
	StockQuantity int32       `json:"stockQuantity" validate:"min=0"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   *string     `json:"description"`
	Category      string      `json:"category"`
	UnitPrice     money.Money `json:"unitPrice"`
	StockQuantity int32       `json:"stockQuantity"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     *time.Time  `json:"updatedAt"`
}

// CategorySummaryDto is one per-category entry of the summary report.
type CategorySummaryDto struct {
	Category   string      `json:"category"`
	Count      int64       `json:"count"`
	TotalValue money.Money `json:"totalValue"`
}

// SummaryDto is the composite inventory report.
type SummaryDto struct {
	TotalProducts int64                `json:"totalProducts"`
	ByCategory    []CategorySummaryDto `json:"byCategory"`
	LowStockCount int64                `json:"lowStockCount"`
}

// FindAll retrieves all products ordered by name and returns them as ProductDTOs.
// Returns an empty slice if no products exist or error if the retrieval fails.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	return toDto(product), nil
}

// Create creates a new product and returns it as a ProductDto. The service
// stamps CreatedAt once, in UTC; the store assigns the ID.
func (s *Service) Create(ctx context.Context, product ProductSaveDto) (*ProductDto, error) {
	created, err := s.repository.Create(ctx, store.Product{
		Name:          product.Name,
		Description:   product.Description,
		Category:      categoryOrDefault(product.Category),
		UnitPrice:     product.UnitPrice.Decimal,
		StockQuantity: product.StockQuantity,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return toDto(created), nil
}

// Update overwrites all mutable fields of an existing product atomically and
// returns the updated product as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id int64, product ProductSaveDto) (*ProductDto, error) {
	updated, err := s.repository.Update(ctx, id, store.Product{
		Name:          product.Name,
		Description:   product.Description,
		Category:      categoryOrDefault(product.Category),
		UnitPrice:     product.UnitPrice.Decimal,
		StockQuantity: product.StockQuantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	return s.repository.DeleteByID(ctx, id)
}

// Summary computes the inventory report from three store round trips: total
// count, per-category rollup and low-stock count. Categories are sorted by
// name so clients see a stable order.
func (s *Service) Summary(ctx context.Context) (*SummaryDto, error) {
	total, err := s.repository.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	aggregates, err := s.repository.AggregateByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate products by category: %w", err)
	}
	byCategory := make([]CategorySummaryDto, 0, len(aggregates))
	for category, agg := range aggregates {
		byCategory = append(byCategory, CategorySummaryDto{
			Category:   category,
			Count:      agg.Count,
			TotalValue: money.New(agg.TotalValue.Round(2)),
		})
	}
	sort.Slice(byCategory, func(i, j int) bool {
		return byCategory[i].Category < byCategory[j].Category
	})

	lowStock, err := s.repository.CountBelowThreshold(ctx, lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to count low-stock products: %w", err)
	}

	return &SummaryDto{
		TotalProducts: total,
		ByCategory:    byCategory,
		LowStockCount: lowStock,
	}, nil
}

// categoryOrDefault falls back to the default category for blank input.
func categoryOrDefault(category string) string {
	if category == "" {
		return defaultCategory
	}
	return category
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Category:      product.Category,
		UnitPrice:     money.New(product.UnitPrice),
		StockQuantity: product.StockQuantity,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	perrors "github.com/brian5Home/inventory-service/internal/errors"
	"github.com/shopspring/decimal"
)

// InMemory implements ProductStore using an in-memory map.
// The mutex makes id allocation atomic, so concurrent creates never collide.
type InMemory struct {
	mu       sync.RWMutex
	products map[int64]Product
	nextID   int64
}

// NewInMemoryStore creates a new instance of ProductStore backed by memory.
func NewInMemoryStore() *InMemory {
	return &InMemory{
		products: make(map[int64]Product),
		nextID:   1,
	}
}

// FindAll retrieves all products ordered by name ascending.
func (s *InMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list, nil
}

// FindByID retrieves a product by its ID.
func (s *InMemory) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

// Create creates a new product and returns it. IDs are never reused, even
// after deletes.
func (s *InMemory) Create(_ context.Context, draft Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := draft
	product.ID = s.nextID
	product.UpdatedAt = nil
	s.nextID++
	s.products[product.ID] = product

	return &product, nil
}

// Update overwrites the mutable fields of an existing product and stamps
// UpdatedAt.
func (s *InMemory) Update(_ context.Context, id int64, fields Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	now := time.Now().UTC()
	current.Name = fields.Name
	current.Description = fields.Description
	current.Category = fields.Category
	current.UnitPrice = fields.UnitPrice
	current.StockQuantity = fields.StockQuantity
	current.UpdatedAt = &now
	s.products[id] = current

	return &current, nil
}

// DeleteByID deletes a product by its ID.
func (s *InMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return perrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Count returns the total number of products.
func (s *InMemory) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.products)), nil
}

// AggregateByCategory builds the per-category rollup in a single pass.
func (s *InMemory) AggregateByCategory(_ context.Context) (map[string]CategoryAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aggregates := make(map[string]CategoryAggregate)
	for _, p := range s.products {
		agg := aggregates[p.Category]
		agg.Count++
		agg.TotalValue = agg.TotalValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
		aggregates[p.Category] = agg
	}
	return aggregates, nil
}

// CountBelowThreshold returns the number of products with stock quantity
// strictly below the given threshold.
func (s *InMemory) CountBelowThreshold(_ context.Context, threshold int32) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, p := range s.products {
		if p.StockQuantity < threshold {
			count++
		}
	}
	return count, nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brian5Home/inventory-service/internal/store"
	"github.com/brian5Home/inventory-service/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	products   []store.Product
	product    store.Product
	aggregates map[string]store.CategoryAggregate
	count      int64
	lowStock   int64
	error      error

	lastDraft *store.Product // captures the draft passed to Create/Update
}

func (m *mockProductStore) FindAll(_ context.Context) ([]store.Product, error) {
	return m.products, m.error
}

func (m *mockProductStore) FindByID(_ context.Context, _ int64) (*store.Product, error) {
	return &m.product, m.error
}

func (m *mockProductStore) Create(_ context.Context, draft store.Product) (*store.Product, error) {
	m.lastDraft = &draft
	if m.error != nil {
		return nil, m.error
	}
	created := draft
	created.ID = m.product.ID
	return &created, nil
}

func (m *mockProductStore) Update(_ context.Context, _ int64, fields store.Product) (*store.Product, error) {
	m.lastDraft = &fields
	return &m.product, m.error
}

func (m *mockProductStore) DeleteByID(_ context.Context, _ int64) error {
	return m.error
}

func (m *mockProductStore) Count(_ context.Context) (int64, error) {
	return m.count, m.error
}

func (m *mockProductStore) AggregateByCategory(_ context.Context) (map[string]store.CategoryAggregate, error) {
	return m.aggregates, m.error
}

func (m *mockProductStore) CountBelowThreshold(_ context.Context, _ int32) (int64, error) {
	return m.lowStock, m.error
}

func Test_ProductService_FindByID(t *testing.T) {
	ErrProductNotFound := errors.New("product not found")
	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   int64
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: store.Product{ID: 1, Name: "Widget A", Category: "Widgets", CreatedAt: createdAt},
				error:   nil,
			},
			productID:   1,
			expected:    &ProductDto{ID: 1, Name: "Widget A", Category: "Widgets", CreatedAt: createdAt},
			expectError: nil,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: ErrProductNotFound,
			},
			productID:   1,
			expected:    nil,
			expectError: ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindAll(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expected    []ProductDto
		expectError error
	}{
		{
			name: "Success - products found",
			mockStore: &mockProductStore{
				products: []store.Product{{ID: 1, Name: "Widget A"}},
				error:    nil,
			},
			expected:    []ProductDto{{ID: 1, Name: "Widget A"}},
			expectError: nil,
		},
		{
			name: "Success - no products",
			mockStore: &mockProductStore{
				products: []store.Product{},
				error:    nil,
			},
			expected:    []ProductDto{},
			expectError: nil,
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				error: ErrStoreError,
			},
			expected:    nil,
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindAll(context.Background())
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_Create_StampsCreationTime(t *testing.T) {
	// given
	mockStore := &mockProductStore{product: store.Product{ID: 7}}
	service := NewService(mockStore)
	before := time.Now().UTC()

	// when
	created, err := service.Create(context.Background(), ProductSaveDto{
		Name:          "Widget A",
		Category:      "Widgets",
		UnitPrice:     money.RequireFromString("9.99"),
		StockQuantity: 100,
	})

	// then: the service stamps CreatedAt once, in UTC; the store assigns the ID
	require.NoError(t, err)
	require.NotNil(t, mockStore.lastDraft)
	assert.Equal(t, time.UTC, mockStore.lastDraft.CreatedAt.Location())
	assert.False(t, mockStore.lastDraft.CreatedAt.Before(before))
	assert.False(t, mockStore.lastDraft.CreatedAt.After(time.Now().UTC()))
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, "Widgets", created.Category)
	assert.True(t, created.UnitPrice.Equal(decimal.RequireFromString("9.99")))
}

func Test_ProductService_Create_DefaultsCategory(t *testing.T) {
	// given
	mockStore := &mockProductStore{product: store.Product{ID: 1}}
	service := NewService(mockStore)

	// when: no category in the request
	created, err := service.Create(context.Background(), ProductSaveDto{Name: "Widget A"})

	// then
	require.NoError(t, err)
	assert.Equal(t, "General", mockStore.lastDraft.Category)
	assert.Equal(t, "General", created.Category)
}

func Test_ProductService_Create_StoreError(t *testing.T) {
	ErrStoreError := errors.New("store error")
	service := NewService(&mockProductStore{error: ErrStoreError})

	created, err := service.Create(context.Background(), ProductSaveDto{Name: "Widget A"})

	assert.ErrorIs(t, err, ErrStoreError)
	assert.Nil(t, created)
}

func Test_ProductService_Update(t *testing.T) {
	ErrProductNotFound := errors.New("product not found")
	updatedAt := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		dto         ProductSaveDto
		expected    *ProductDto
		expectError error
	}{
		{
			name: "Success - product updated",
			mockStore: &mockProductStore{
				product: store.Product{ID: 1, Name: "Widget A2", Category: "Widgets", UpdatedAt: &updatedAt},
			},
			dto:         ProductSaveDto{Name: "Widget A2", Category: "Widgets"},
			expected:    &ProductDto{ID: 1, Name: "Widget A2", Category: "Widgets", UpdatedAt: &updatedAt},
			expectError: nil,
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: ErrProductNotFound,
			},
			dto:         ProductSaveDto{Name: "Widget A2"},
			expected:    nil,
			expectError: ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			updated, err := service.Update(context.Background(), 1, tc.dto)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, updated)
		})
	}
}

func Test_ProductService_Update_DefaultsCategory(t *testing.T) {
	// given: a full overwrite with a blank category falls back to the default
	mockStore := &mockProductStore{product: store.Product{ID: 1}}
	service := NewService(mockStore)

	// when
	_, err := service.Update(context.Background(), 1, ProductSaveDto{Name: "Widget A2"})

	// then
	require.NoError(t, err)
	assert.Equal(t, "General", mockStore.lastDraft.Category)
}

func Test_ProductService_DeleteByID(t *testing.T) {
	ErrProductNotFound := errors.New("product not found")

	service := NewService(&mockProductStore{})
	assert.NoError(t, service.DeleteByID(context.Background(), 1))

	service = NewService(&mockProductStore{error: ErrProductNotFound})
	assert.ErrorIs(t, service.DeleteByID(context.Background(), 1), ErrProductNotFound)
}

func Test_ProductService_Summary(t *testing.T) {
	// given
	mockStore := &mockProductStore{
		count:    3,
		lowStock: 1,
		aggregates: map[string]store.CategoryAggregate{
			"Widgets": {Count: 1, TotalValue: decimal.RequireFromString("999")},
			"Gadgets": {Count: 1, TotalValue: decimal.RequireFromString("1249.5")},
			"Tools":   {Count: 1, TotalValue: decimal.RequireFromString("74.95")},
		},
	}
	service := NewService(mockStore)

	// when
	summary, err := service.Summary(context.Background())

	// then: categories come out sorted by name with rounded totals
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalProducts)
	assert.Equal(t, int64(1), summary.LowStockCount)
	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, "Gadgets", summary.ByCategory[0].Category)
	assert.Equal(t, "Tools", summary.ByCategory[1].Category)
	assert.Equal(t, "Widgets", summary.ByCategory[2].Category)
	assert.True(t, summary.ByCategory[0].TotalValue.Equal(decimal.RequireFromString("1249.50")))
}

func Test_ProductService_Summary_StoreError(t *testing.T) {
	ErrStoreError := errors.New("store error")
	service := NewService(&mockProductStore{error: ErrStoreError})

	summary, err := service.Summary(context.Background())

	assert.ErrorIs(t, err, ErrStoreError)
	assert.Nil(t, summary)
}

// Test_ProductService_Summary_Inventory runs the report against the real
// in-memory store with a known inventory.
func Test_ProductService_Summary_Inventory(t *testing.T) {
	// given
	ctx := context.Background()
	service := NewService(store.NewInMemoryStore())
	seed := []ProductSaveDto{
		{Name: "Widget A", Category: "Widgets", UnitPrice: money.RequireFromString("9.99"), StockQuantity: 100},
		{Name: "Gadget B", Category: "Gadgets", UnitPrice: money.RequireFromString("24.99"), StockQuantity: 50},
		{Name: "Tool C", Category: "Tools", UnitPrice: money.RequireFromString("14.99"), StockQuantity: 5},
	}
	for _, dto := range seed {
		_, err := service.Create(ctx, dto)
		require.NoError(t, err)
	}

	// when
	summary, err := service.Summary(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalProducts)
	assert.Equal(t, int64(1), summary.LowStockCount, "only Tool C (qty 5) is below the threshold")
	require.Len(t, summary.ByCategory, 3)

	expected := map[string]string{
		"Widgets": "999.00",
		"Gadgets": "1249.50",
		"Tools":   "74.95",
	}
	for _, entry := range summary.ByCategory {
		assert.Equal(t, int64(1), entry.Count)
		assert.True(t, entry.TotalValue.Equal(decimal.RequireFromString(expected[entry.Category])),
			"category %s: got %s", entry.Category, entry.TotalValue)
	}
}

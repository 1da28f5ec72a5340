package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/model"
)

// MockCatalogStore is an in-memory ProductStore and CategoryStore for testing
type MockCatalogStore struct {
	mu         sync.RWMutex
	products   map[string]model.Product
	categories map[string]model.Category

	// For tracking calls in tests
	ListCalls       []store.ProductFilter
	InsertCalls     []model.Product
	UpdateCalls     []UpdateCall
	DeactivateCalls []string
	CategoryCalls   int

	// Err is returned by every method when set
	Err error
}

// UpdateCall records parameters passed to UpdateProduct
type UpdateCall struct {
	ID    string
	Patch store.ProductPatch
}

// NewMockCatalogStore creates a new MockCatalogStore
func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{
		products:   make(map[string]model.Product),
		categories: make(map[string]model.Category),
	}
}

// SeedProduct stores p without recording a call
func (m *MockCatalogStore) SeedProduct(p model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// SeedCategory stores c without recording a call
func (m *MockCatalogStore) SeedCategory(c model.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
}

// Product returns the stored product regardless of its active flag
func (m *MockCatalogStore) Product(id string) (model.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	return p, ok
}

func (m *MockCatalogStore) ListProducts(ctx context.Context, f store.ProductFilter) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls = append(m.ListCalls, f)
	if m.Err != nil {
		return nil, m.Err
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	result := make([]model.Product, 0)
	for _, p := range m.products {
		if !f.IncludeInactive && !p.IsActive {
			continue
		}
		if f.FeaturedOnly && !p.IsFeatured {
			continue
		}
		p = m.withCategory(p)
		if f.CategorySlug != "" && (p.Category == nil || p.Category.Slug != f.CategorySlug) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Brand), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if f.Offset > 0 {
		if f.Offset >= len(result) {
			return []model.Product{}, nil
		}
		result = result[f.Offset:]
	}
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

func (m *MockCatalogStore) withCategory(p model.Product) model.Product {
	if c, ok := m.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (m *MockCatalogStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = m.withCategory(p)
	return &p, nil
}

func (m *MockCatalogStore) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.products {
		if p.Slug == slug && p.IsActive {
			p = m.withCategory(p)
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockCatalogStore) InsertProduct(ctx context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls = append(m.InsertCalls, *p)
	if m.Err != nil {
		return m.Err
	}
	m.products[p.ID] = *p
	return nil
}

func (m *MockCatalogStore) UpdateProduct(ctx context.Context, id string, patch store.ProductPatch) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{ID: id, Patch: patch})
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.SalePrice != nil {
		if *patch.SalePrice > 0 {
			v := *patch.SalePrice
			p.SalePrice = &v
		} else {
			p.SalePrice = nil
		}
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
	p.UpdatedAt = time.Now()
	m.products[id] = p

	p = m.withCategory(p)
	return &p, nil
}

func (m *MockCatalogStore) DeactivateProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeactivateCalls = append(m.DeactivateCalls, id)
	if m.Err != nil {
		return m.Err
	}
	p, ok := m.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.IsActive = false
	m.products[id] = p
	return nil
}

func (m *MockCatalogStore) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CategoryCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *MockCatalogStore) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockCatalogStore) InsertCategory(ctx context.Context, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.categories[c.ID] = *c
	return nil
}

package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/model"
)

// MockOrderStore is an in-memory OrderStore for testing
type MockOrderStore struct {
	mu     sync.RWMutex
	orders map[string]model.Order

	// For tracking calls in tests
	InsertCalls       []model.Order
	UpdateStatusCalls []StatusCall

	InsertErr error
	Err       error
}

// StatusCall records parameters passed to UpdateOrderStatus
type StatusCall struct {
	ID     string
	Status model.OrderStatus
}

// NewMockOrderStore creates a new MockOrderStore
func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{orders: make(map[string]model.Order)}
}

func (m *MockOrderStore) InsertOrder(ctx context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls = append(m.InsertCalls, *o)
	if m.InsertErr != nil {
		return m.InsertErr
	}
	if m.Err != nil {
		return m.Err
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *MockOrderStore) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateStatusCalls = append(m.UpdateStatusCalls, StatusCall{ID: id, Status: status})
	if m.Err != nil {
		return m.Err
	}
	o, ok := m.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func (m *MockOrderStore) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]model.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (m *MockOrderStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

package mocks

import (
	"context"
	"sync"

	"github.com/example/ec-storefront/internal/model"
)

// MockProcedures is a mock implementation of store.Procedures for testing
type MockProcedures struct {
	mu sync.Mutex

	// For tracking calls in tests
	StockCalls          []StockCall
	RecommendationCalls []RecommendationCall

	// StockErr maps product ids to the error UpdateProductStock returns for them
	StockErr           map[string]error
	Statistics         *model.OrderStatistics
	StatisticsErr      error
	Recommendations    []model.Product
	RecommendationsErr error
}

// StockCall records parameters passed to UpdateProductStock
type StockCall struct {
	ProductID    string
	QuantitySold int
}

// RecommendationCall records parameters passed to ProductRecommendations
type RecommendationCall struct {
	ProductID string
	Limit     int
}

// NewMockProcedures creates a new MockProcedures
func NewMockProcedures() *MockProcedures {
	return &MockProcedures{StockErr: make(map[string]error)}
}

func (m *MockProcedures) UpdateProductStock(ctx context.Context, productID string, quantitySold int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StockCalls = append(m.StockCalls, StockCall{ProductID: productID, QuantitySold: quantitySold})
	return m.StockErr[productID]
}

func (m *MockProcedures) OrderStatistics(ctx context.Context) (*model.OrderStatistics, error) {
	if m.StatisticsErr != nil {
		return nil, m.StatisticsErr
	}
	if m.Statistics == nil {
		return &model.OrderStatistics{}, nil
	}
	return m.Statistics, nil
}

func (m *MockProcedures) ProductRecommendations(ctx context.Context, productID string, limit int) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RecommendationCalls = append(m.RecommendationCalls, RecommendationCall{ProductID: productID, Limit: limit})
	if m.RecommendationsErr != nil {
		return nil, m.RecommendationsErr
	}
	if len(m.Recommendations) > limit {
		return m.Recommendations[:limit], nil
	}
	return m.Recommendations, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/example/ec-storefront/internal/model"
)

func (s *PostgresStore) UpdateProductStock(ctx context.Context, productID string, quantitySold int) error {
	ctx, span := startSpan(ctx, "update_product_stock",
		attribute.String("product.id", productID),
		attribute.Int("quantity_sold", quantitySold),
	)
	defer span.End()

	_, err := s.db.ExecContext(ctx, `SELECT update_product_stock($1, $2)`, productID, quantitySold)
	return endSpan(span, err)
}

func (s *PostgresStore) OrderStatistics(ctx context.Context) (*model.OrderStatistics, error) {
	ctx, span := startSpan(ctx, "get_order_statistics")
	defer span.End()

	var raw []byte
	if err := s.db.QueryRowContext(ctx, `SELECT get_order_statistics()`).Scan(&raw); err != nil {
		return nil, endSpan(span, err)
	}

	var stats model.OrderStatistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, endSpan(span, fmt.Errorf("decode order statistics: %w", err))
	}
	return &stats, nil
}

func (s *PostgresStore) ProductRecommendations(ctx context.Context, productID string, limit int) ([]model.Product, error) {
	ctx, span := startSpan(ctx, "get_product_recommendations",
		attribute.String("product.id", productID),
		attribute.Int("limit", limit),
	)
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM get_product_recommendations($1, $2) p`, productID, limit)
	if err != nil {
		return nil, endSpan(span, err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows, false)
		if err != nil {
			return nil, endSpan(span, err)
		}
		products = append(products, *p)
	}
	return products, endSpan(span, rows.Err())
}

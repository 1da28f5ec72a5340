package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"

	"github.com/example/ec-storefront/internal/model"
)

const orderSelect = `SELECT id, user_id, total_amount, shipping_fee, discount_amount, payment_method,
	payment_status, shipping_address, status, notes, created_at, updated_at FROM orders`

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o       model.Order
		address []byte
		notes   sql.NullString
	)
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingFee, &o.DiscountAmount,
		&o.PaymentMethod, &o.PaymentStatus, &address, &o.Status, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("decode shipping address of order %s: %w", o.ID, err)
		}
	}
	o.Notes = notes.String
	o.Items = []model.OrderItem{}
	return &o, nil
}

// InsertOrder writes the order header and its line items in one transaction.
func (s *PostgresStore) InsertOrder(ctx context.Context, o *model.Order) error {
	ctx, span := startSpan(ctx, "InsertOrder",
		attribute.String("order.id", o.ID),
		attribute.Int("order.items", len(o.Items)),
	)
	defer span.End()

	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return endSpan(span, fmt.Errorf("encode shipping address: %w", err))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return endSpan(span, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total_amount, shipping_fee, discount_amount, payment_method,
			payment_status, shipping_address, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, o.ID, o.UserID, o.TotalAmount, o.ShippingFee, o.DiscountAmount, o.PaymentMethod,
		o.PaymentStatus, address, o.Status, nullString(o.Notes), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return endSpan(span, fmt.Errorf("insert order: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return endSpan(span, err)
	}
	defer stmt.Close()

	for _, item := range o.Items {
		if _, err := stmt.ExecContext(ctx, item.ID, o.ID, item.ProductID, item.Quantity,
			item.UnitPrice, item.TotalPrice, item.CreatedAt); err != nil {
			return endSpan(span, fmt.Errorf("insert order item %s: %w", item.ProductID, err))
		}
	}

	return endSpan(span, tx.Commit())
}

func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	ctx, span := startSpan(ctx, "UpdateOrderStatus",
		attribute.String("order.id", id),
		attribute.String("order.status", string(status)),
	)
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now())
	if err != nil {
		return endSpan(span, err)
	}
	return endSpan(span, expectRow(res))
}

// ListOrdersByUser returns the user's orders newest first with their items
// and the live product name, slug and images.
func (s *PostgresStore) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	ctx, span := startSpan(ctx, "ListOrdersByUser", attribute.String("user.id", userID))
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		orderSelect+" WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, endSpan(span, err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, endSpan(span, err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, endSpan(span, err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*model.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	items, err := s.orderItems(ctx, ids)
	if err != nil {
		return nil, endSpan(span, err)
	}
	for _, item := range items {
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return orders, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	ctx, span := startSpan(ctx, "GetOrder", attribute.String("order.id", id))
	defer span.End()

	o, err := scanOrder(s.db.QueryRowContext(ctx, orderSelect+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, endSpan(span, err)
	}

	items, err := s.orderItems(ctx, []string{id})
	if err != nil {
		return nil, endSpan(span, err)
	}
	o.Items = append(o.Items, items...)
	return o, nil
}

func (s *PostgresStore) orderItems(ctx context.Context, orderIDs []string) ([]model.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.total_price,
			oi.created_at, p.name, p.slug, p.images
		FROM order_items oi LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at, oi.id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var (
			item   model.OrderItem
			name   sql.NullString
			slug   sql.NullString
			images pq.StringArray
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice,
			&item.TotalPrice, &item.CreatedAt, &name, &slug, &images); err != nil {
			return nil, err
		}
		if name.Valid {
			item.Product = &model.ProductSnapshot{Name: name.String, Slug: slug.String, Images: []string(images)}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

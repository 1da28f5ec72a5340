package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/shipping"
	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/model"
)

// EventPublisher delivers order events to the message bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, key string, payload any) error
}

type Service struct {
	orders     store.OrderStore
	procedures store.Procedures
	events     EventPublisher
	log        *zap.SugaredLogger
	now        func() time.Time
}

// NewService creates an order service. events may be nil, in which case no
// events are published.
func NewService(orders store.OrderStore, procedures store.Procedures, events EventPublisher, log *zap.SugaredLogger) *Service {
	return &Service{
		orders:     orders,
		procedures: procedures,
		events:     events,
		log:        log,
		now:        time.Now,
	}
}

type createOptions struct {
	notes        string
	discount     int64
	contactEmail string
}

// CreateOption customizes CreateOrder.
type CreateOption func(*createOptions)

func WithNotes(notes string) CreateOption {
	return func(o *createOptions) { o.notes = strings.TrimSpace(notes) }
}

func WithDiscount(amount int64) CreateOption {
	return func(o *createOptions) { o.discount = amount }
}

// WithContactEmail sets the address the confirmation email is sent to.
func WithContactEmail(email string) CreateOption {
	return func(o *createOptions) { o.contactEmail = email }
}

// CreateOrder prices the cart, stores the order with its items and then
// decrements stock for each item. Stock and event failures are logged and
// do not fail the order.
func (s *Service) CreateOrder(ctx context.Context, userID string, items []cart.Item, addr shipping.Address, method PaymentMethod, opts ...CreateOption) (*Order, error) {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	if userID == "" {
		return nil, ErrMissingUser
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("item %q: %w", item.ProductID, err)
		}
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}
	if v := shipping.ValidateShippingAddress(addr); !v.IsValid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, strings.Join(v.Errors, "; "))
	}

	totals, err := CalculateTotals(items).withDiscount(o.discount)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           make([]OrderItem, 0, len(items)),
		TotalAmount:     totals.Total,
		ShippingFee:     totals.ShippingFee,
		DiscountAmount:  totals.DiscountAmount,
		PaymentMethod:   method,
		PaymentStatus:   PaymentStatusPending,
		ShippingAddress: addr,
		Status:          StatusPending,
		Notes:           o.notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, item := range items {
		order.Items = append(order.Items, OrderItem{
			ID:         uuid.New().String(),
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.LineTotal(),
			CreatedAt:  now,
		})
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.decrementStock(ctx, order)
	s.publishCreated(ctx, order, items, totals, o.contactEmail)

	s.log.Infow("order created",
		"order_id", order.ID,
		"user_id", userID,
		"items", len(order.Items),
		"total", order.TotalAmount,
	)
	return order, nil
}

// decrementStock issues one update_product_stock call per item, in order.
func (s *Service) decrementStock(ctx context.Context, order *Order) {
	for _, item := range order.Items {
		if err := s.procedures.UpdateProductStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Errorw("stock update failed",
				"order_id", order.ID,
				"product_id", item.ProductID,
				"quantity", item.Quantity,
				"err", err,
			)
		}
	}
}

func (s *Service) publishCreated(ctx context.Context, order *Order, items []cart.Item, totals Totals, email string) {
	if s.events == nil {
		return
	}
	event := OrderCreated{
		OrderID:         order.ID,
		UserID:          order.UserID,
		ContactEmail:    email,
		Items:           make([]EventItem, 0, len(items)),
		Subtotal:        totals.Subtotal,
		ShippingFee:     totals.ShippingFee,
		DiscountAmount:  totals.DiscountAmount,
		TotalAmount:     totals.Total,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range items {
		event.Items = append(event.Items, EventItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.LineTotal(),
		})
	}
	if err := s.events.PublishEvent(ctx, EventOrderCreated, order.ID, event); err != nil {
		s.log.Warnw("publish order event failed", "order_id", order.ID, "event", EventOrderCreated, "err", err)
	}
}

// UpdateOrderStatus sets the order status. Any enumerated status is
// accepted from any other; see Status.CanTransitionTo for the conventional
// lifecycle.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if !model.ValidID(orderID) {
		return ErrOrderNotFound
	}

	err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if errors.Is(err, store.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if s.events != nil {
		event := OrderStatusChanged{OrderID: orderID, Status: status, ChangedAt: s.now()}
		if err := s.events.PublishEvent(ctx, EventOrderStatusChanged, orderID, event); err != nil {
			s.log.Warnw("publish order event failed", "order_id", orderID, "event", EventOrderStatusChanged, "err", err)
		}
	}
	return nil
}

// GetUserOrders returns the user's orders newest first, each with its items.
func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user orders: %w", err)
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if !model.ValidID(orderID) {
		return nil, ErrOrderNotFound
	}
	o, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return o, nil
}

func (s *Service) GetOrderStatistics(ctx context.Context) (*Statistics, error) {
	stats, err := s.procedures.OrderStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("get order statistics: %w", err)
	}
	return stats, nil
}

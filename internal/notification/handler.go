package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/email"
	"github.com/example/ec-storefront/internal/infrastructure/kafka"
)

// Mailer sends rendered order confirmations.
type Mailer interface {
	SendOrderConfirmation(to string, data email.OrderConfirmation) error
}

// Handler processes order events for sending notifications
type Handler struct {
	mailer Mailer
	log    *zap.SugaredLogger
}

// NewHandler creates a new notification handler
func NewHandler(mailer Mailer, log *zap.SugaredLogger) *Handler {
	return &Handler{mailer: mailer, log: log}
}

// HandleEvent processes a message from the order topic. Events other than
// OrderCreated are ignored.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	env, err := kafka.DecodeEnvelope(value)
	if err != nil {
		h.log.Warnw("skip undecodable message", "key", string(key), "err", err)
		return err
	}

	if env.Type == order.EventOrderCreated {
		return h.handleOrderCreated(env)
	}
	return nil
}

func (h *Handler) handleOrderCreated(env *kafka.Envelope) error {
	var e order.OrderCreated
	if err := env.Payload(&e); err != nil {
		h.log.Warnw("decode OrderCreated failed", "event_id", env.ID, "err", err)
		return err
	}

	if e.ContactEmail == "" {
		h.log.Infow("order has no contact email, skipping confirmation", "order_id", e.OrderID, "user_id", e.UserID)
		return nil
	}

	items := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		items[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	data := email.OrderConfirmation{
		OrderID:       e.OrderID,
		CustomerName:  e.ShippingAddress.Name,
		Items:         items,
		Subtotal:      e.Subtotal,
		ShippingFee:   e.ShippingFee,
		Discount:      e.DiscountAmount,
		Total:         e.TotalAmount,
		PaymentMethod: string(e.PaymentMethod),
		Address:       e.ShippingAddress,
	}
	if err := h.mailer.SendOrderConfirmation(e.ContactEmail, data); err != nil {
		h.log.Errorw("send order confirmation failed", "order_id", e.OrderID, "to", e.ContactEmail, "err", err)
		return err
	}

	h.log.Infow("order confirmation sent", "order_id", e.OrderID, "to", e.ContactEmail)
	return nil
}

package order

import (
	"errors"

	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/model"
)

type (
	Order         = model.Order
	OrderItem     = model.OrderItem
	Status        = model.OrderStatus
	PaymentMethod = model.PaymentMethod
	PaymentStatus = model.PaymentStatus
	Statistics    = model.OrderStatistics
)

const (
	StatusPending    = model.OrderStatusPending
	StatusConfirmed  = model.OrderStatusConfirmed
	StatusProcessing = model.OrderStatusProcessing
	StatusShipping   = model.OrderStatusShipping
	StatusDelivered  = model.OrderStatusDelivered
	StatusCancelled  = model.OrderStatusCancelled
	StatusRefunded   = model.OrderStatusRefunded
)

const (
	PaymentCOD          = model.PaymentCOD
	PaymentBankTransfer = model.PaymentBankTransfer
	PaymentMomo         = model.PaymentMomo
	PaymentVNPay        = model.PaymentVNPay

	PaymentStatusPending = model.PaymentStatusPending
)

const (
	// FreeShippingThreshold is the subtotal from which shipping is free.
	FreeShippingThreshold int64 = 500000
	// StandardShippingFee applies below the threshold, whatever the carrier.
	StandardShippingFee int64 = 25000
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order must have at least one item")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidAddress       = errors.New("invalid shipping address")
	ErrInvalidDiscount      = errors.New("discount must be between zero and the order amount")
	ErrMissingUser          = errors.New("user id is required")
)

// Totals is the price breakdown of an order.
type Totals struct {
	Subtotal       int64 `json:"subtotal"`
	ShippingFee    int64 `json:"shipping_fee"`
	DiscountAmount int64 `json:"discount_amount"`
	Total          int64 `json:"total"`
}

// ShippingFee returns the flat order fee for subtotal.
func ShippingFee(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return StandardShippingFee
}

// CalculateTotals prices items with no discount.
func CalculateTotals(items []cart.Item) Totals {
	subtotal := cart.Subtotal(items)
	fee := ShippingFee(subtotal)
	return Totals{Subtotal: subtotal, ShippingFee: fee, Total: subtotal + fee}
}

func (t Totals) withDiscount(discount int64) (Totals, error) {
	if discount < 0 || discount > t.Subtotal+t.ShippingFee {
		return t, ErrInvalidDiscount
	}
	t.DiscountAmount = discount
	t.Total = t.Subtotal + t.ShippingFee - discount
	return t, nil
}

package order

import (
	"time"

	"github.com/example/ec-storefront/internal/domain/shipping"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type EventItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	TotalPrice int64  `json:"total_price"`
}

type OrderCreated struct {
	OrderID         string           `json:"order_id"`
	UserID          string           `json:"user_id"`
	ContactEmail    string           `json:"contact_email,omitempty"`
	Items           []EventItem      `json:"items"`
	Subtotal        int64            `json:"subtotal"`
	ShippingFee     int64            `json:"shipping_fee"`
	DiscountAmount  int64            `json:"discount_amount"`
	TotalAmount     int64            `json:"total_amount"`
	PaymentMethod   PaymentMethod    `json:"payment_method"`
	ShippingAddress shipping.Address `json:"shipping_address"`
	CreatedAt       time.Time        `json:"created_at"`
}

type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

package model

import (
	"time"

	"github.com/example/ec-storefront/internal/domain/shipping"
)

// Category is a product grouping addressed by slug in the storefront.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Product is a catalog entry. Deleting a product clears IsActive; rows are
// never removed.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	SalePrice   *int64    `json:"sale_price,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	IsFeatured  bool      `json:"is_featured"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentMomo         PaymentMethod = "momo"
	PaymentVNPay        PaymentMethod = "vnpay"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ProductSnapshot is the live product data joined onto an order line for
// display. Prices on the line itself stay frozen.
type ProductSnapshot struct {
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	Images []string `json:"images"`
}

// OrderItem is immutable once written.
type OrderItem struct {
	ID         string           `json:"id"`
	OrderID    string           `json:"order_id"`
	ProductID  string           `json:"product_id"`
	Quantity   int              `json:"quantity"`
	UnitPrice  int64            `json:"unit_price"`
	TotalPrice int64            `json:"total_price"`
	Product    *ProductSnapshot `json:"product,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Order amounts satisfy TotalAmount = sum(Items.TotalPrice) + ShippingFee - DiscountAmount.
type Order struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Items           []OrderItem      `json:"items"`
	TotalAmount     int64            `json:"total_amount"`
	ShippingFee     int64            `json:"shipping_fee"`
	DiscountAmount  int64            `json:"discount_amount"`
	PaymentMethod   PaymentMethod    `json:"payment_method"`
	PaymentStatus   PaymentStatus    `json:"payment_status"`
	ShippingAddress shipping.Address `json:"shipping_address"`
	Status          OrderStatus      `json:"status"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// OrderStatistics is the payload of the get_order_statistics procedure.
type OrderStatistics struct {
	TotalOrders     int64 `json:"total_orders"`
	TotalRevenue    int64 `json:"total_revenue"`
	PendingOrders   int64 `json:"pending_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`
	CancelledOrders int64 `json:"cancelled_orders"`
}

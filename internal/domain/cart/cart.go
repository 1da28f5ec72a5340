package cart

import (
	"errors"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrInvalidPrice    = errors.New("unit price must not be negative")
	ErrItemNotFound    = errors.New("item not in cart")
)

// Item is one product line in the cart. UnitPrice is captured when the
// item is added and becomes the frozen order price at checkout.
type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// LineTotal returns UnitPrice * Quantity.
func (i Item) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Validate checks a single item independently of any cart.
func (i Item) Validate() error {
	if i.ProductID == "" {
		return ErrInvalidProduct
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Cart keeps items in insertion order. The zero value is an empty cart.
type Cart struct {
	items []Item
}

func New(items ...Item) (*Cart, error) {
	c := &Cart{}
	for _, it := range items {
		if err := c.Add(it); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add inserts an item or, if the product is already present, increases its
// quantity and refreshes the unit price.
func (c *Cart) Add(item Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	if idx := c.indexOf(item.ProductID); idx >= 0 {
		existing := &c.items[idx]
		existing.Quantity += item.Quantity
		existing.UnitPrice = item.UnitPrice
		if item.Name != "" {
			existing.Name = item.Name
		}
		return nil
	}

	c.items = append(c.items, item)
	return nil
}

// UpdateQuantity sets an item's quantity; zero or less removes it.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return ErrItemNotFound
	}
	if quantity <= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
		return nil
	}
	c.items[idx].Quantity = quantity
	return nil
}

func (c *Cart) Remove(productID string) {
	if idx := c.indexOf(productID); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	var n int
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Subtotal sums the line totals of the cart.
func (c *Cart) Subtotal() int64 {
	return Subtotal(c.items)
}

// Subtotal sums UnitPrice * Quantity over items.
func Subtotal(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

func (c *Cart) indexOf(productID string) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

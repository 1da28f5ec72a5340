package store

import (
	"context"
	"errors"

	"github.com/example/ec-storefront/internal/model"
)

// ErrNotFound is returned when a lookup by id or slug matches no row.
var ErrNotFound = errors.New("store: not found")

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	CategorySlug    string
	Search          string
	FeaturedOnly    bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ProductPatch carries the updatable product fields. Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *int64
	SalePrice   *int64
	Brand       *string
	CategoryID  *string
	Images      []string
	Stock       *int
	IsActive    *bool
	IsFeatured  *bool
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.SalePrice == nil &&
		p.Brand == nil && p.CategoryID == nil && p.Images == nil && p.Stock == nil &&
		p.IsActive == nil && p.IsFeatured == nil
}

type ProductStore interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	InsertProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*model.Product, error)
	DeactivateProduct(ctx context.Context, id string) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	InsertCategory(ctx context.Context, c *model.Category) error
}

// OrderStore persists orders. InsertOrder writes the header and every line
// item atomically.
type OrderStore interface {
	InsertOrder(ctx context.Context, o *model.Order) error
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
}

// Procedures exposes the server-side functions installed by the migrations.
type Procedures interface {
	UpdateProductStock(ctx context.Context, productID string, quantitySold int) error
	OrderStatistics(ctx context.Context) (*model.OrderStatistics, error)
	ProductRecommendations(ctx context.Context, productID string, limit int) ([]model.Product, error)
}

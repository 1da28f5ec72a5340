package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/ec-storefront/internal/infrastructure/cache"
	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/model"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrEmptyPatch      = errors.New("no fields to update")
)

const (
	DefaultLimit           = 20
	MaxLimit               = 100
	DefaultRecommendations = 4
	recommendationTTL      = 10 * time.Minute
)

var whitespaceRun = regexp.MustCompile(`\s+`)

type (
	Product = model.Product
	Filter  = store.ProductFilter
	Patch   = store.ProductPatch
)

// Input is the set of fields accepted when creating a product.
type Input struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	SalePrice   *int64   `json:"sale_price,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	CategoryID  string   `json:"category_id,omitempty"`
	Images      []string `json:"images,omitempty"`
	Stock       int      `json:"stock"`
	IsFeatured  bool     `json:"is_featured"`
}

type Service struct {
	products   store.ProductStore
	procedures store.Procedures
	cache      cache.Cache
	cacheTTL   time.Duration
	log        *zap.SugaredLogger
}

func NewService(products store.ProductStore, procedures store.Procedures, c cache.Cache, log *zap.SugaredLogger) *Service {
	return &Service{products: products, procedures: procedures, cache: c, cacheTTL: recommendationTTL, log: log}
}

// WithCacheTTL overrides how long recommendations stay cached.
func (s *Service) WithCacheTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
	return s
}

// GenerateSlug lowercases name and replaces each whitespace run with a
// hyphen. Uniqueness is enforced by the database.
func GenerateSlug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// GetProducts lists products newest first. Inactive products are excluded
// unless the filter asks for them. A missing limit means DefaultLimit rows
// and any limit above MaxLimit is clamped to MaxLimit; page with Offset to
// read further.
func (s *Service) GetProducts(ctx context.Context, f Filter) ([]Product, error) {
	f = normalizeFilter(f)
	products, err := s.products.ListProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return products, nil
}

// GetFeaturedProducts applies the same limit defaults as GetProducts.
func (s *Service) GetFeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	products, err := s.products.ListProducts(ctx, normalizeFilter(Filter{FeaturedOnly: true, Limit: limit}))
	if err != nil {
		return nil, fmt.Errorf("get featured products: %w", err)
	}
	return products, nil
}

func normalizeFilter(f Filter) Filter {
	f.Search = strings.TrimSpace(f.Search)
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	p, err := s.products.GetProductBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", slug, err)
	}
	return p, nil
}

func (s *Service) GetProductByID(ctx context.Context, id string) (*Product, error) {
	if !model.ValidID(id) {
		return nil, ErrProductNotFound
	}
	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) CreateProduct(ctx context.Context, in Input) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if in.Stock < 0 {
		return nil, ErrInvalidStock
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}
	now := time.Now()
	p := &Product{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        GenerateSlug(name),
		Description: in.Description,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Brand:       in.Brand,
		CategoryID:  in.CategoryID,
		Images:      images,
		Stock:       in.Stock,
		IsActive:    true,
		IsFeatured:  in.IsFeatured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.InsertProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Infow("product created", "product_id", p.ID, "slug", p.Slug)
	return p, nil
}

// UpdateProduct applies the non-nil fields of patch.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch Patch) (*Product, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrInvalidName
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, ErrInvalidStock
	}
	if !model.ValidID(id) {
		return nil, ErrProductNotFound
	}

	p, err := s.products.UpdateProduct(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, nil
}

// DeleteProduct clears the active flag. The row is kept.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return ErrProductNotFound
	}
	err := s.products.DeactivateProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.log.Infow("product deactivated", "product_id", id)
	return nil
}

// GetRecommendations returns up to limit products related to productID.
// Results are cached, ten minutes by default.
func (s *Service) GetRecommendations(ctx context.Context, productID string, limit int) ([]Product, error) {
	if !model.ValidID(productID) {
		return nil, ErrProductNotFound
	}
	if limit <= 0 {
		limit = DefaultRecommendations
	}
	key := s.cache.GenerateKey("recommendations", fmt.Sprintf("%s:%d", productID, limit))

	var cached []Product
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.log.Warnw("recommendation cache read failed", "key", key, "err", err)
	}
	if hit {
		return cached, nil
	}

	products, err := s.procedures.ProductRecommendations(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recommendations for %s: %w", productID, err)
	}
	if err := cache.SetJSON(ctx, s.cache, key, products, s.cacheTTL); err != nil {
		s.log.Warnw("recommendation cache write failed", "key", key, "err", err)
	}
	return products, nil
}

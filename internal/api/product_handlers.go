package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/domain/product"
)

// ProductHandlers serves the catalog.
type ProductHandlers struct {
	products *product.Service
	log      *zap.SugaredLogger
}

func NewProductHandlers(products *product.Service, log *zap.SugaredLogger) *ProductHandlers {
	return &ProductHandlers{products: products, log: log}
}

func (h *ProductHandlers) Register(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/featured", h.FeaturedProducts)
	r.Get("/products/slug/{slug}", h.GetProductBySlug)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/products/{id}/recommendations", h.Recommendations)
}

// RegisterAdmin mounts the write routes. The caller guards them with RequireRole.
func (h *ProductHandlers) RegisterAdmin(r chi.Router) {
	r.Post("/products", h.CreateProduct)
	r.Patch("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)
}

// ListProducts accepts category, search, featured, limit and offset query
// parameters.
func (h *ProductHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := product.Filter{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		FeaturedOnly: queryBool(r, "featured"),
		Limit:        queryInt(r, "limit", product.DefaultLimit),
		Offset:       queryInt(r, "offset", 0),
	}
	if middleware.IsAdmin(r.Context()) {
		filter.IncludeInactive = queryBool(r, "include_inactive")
	}

	products, err := h.products.GetProducts(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandlers) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetFeaturedProducts(r.Context(), queryInt(r, "limit", 8))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandlers) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GetProduct hides deactivated products from everyone but admins.
func (h *ProductHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	if !p.IsActive && !middleware.IsAdmin(r.Context()) {
		respondServiceError(w, h.log, product.ErrProductNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", product.DefaultRecommendations)
	products, err := h.products.GetRecommendations(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in product.Input
	if err := decodeJSON(r, &in); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	p, err := h.products.CreateProduct(r.Context(), in)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *int64   `json:"price"`
	SalePrice   *int64   `json:"sale_price"`
	Brand       *string  `json:"brand"`
	CategoryID  *string  `json:"category_id"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"is_active"`
	IsFeatured  *bool    `json:"is_featured"`
}

func (req updateProductRequest) patch() product.Patch {
	return product.Patch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Brand:       req.Brand,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		IsFeatured:  req.IsFeatured,
	}
}

func (h *ProductHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	p, err := h.products.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/ec-storefront/internal/domain/category"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categories *category.Service
	log        *zap.SugaredLogger
}

// NewCategoryHandlers creates a new CategoryHandlers instance
func NewCategoryHandlers(categories *category.Service, log *zap.SugaredLogger) *CategoryHandlers {
	return &CategoryHandlers{categories: categories, log: log}
}

func (h *CategoryHandlers) Register(r chi.Router) {
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{slug}", h.GetCategory)
}

func (h *CategoryHandlers) RegisterAdmin(r chi.Router) {
	r.Post("/categories", h.CreateCategory)
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ListCategories returns active categories ordered by name
func (h *CategoryHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetCategories(r.Context())
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CategoryHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	c, err := h.categories.Create(r.Context(), req.Name, req.Slug, req.Description, req.ImageURL)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

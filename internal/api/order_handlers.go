package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/product"
	"github.com/example/ec-storefront/internal/domain/shipping"
)

var errUnavailable = errors.New("product is not available")

// OrderHandlers serves checkout and order history. Every route needs a session.
type OrderHandlers struct {
	orders   *order.Service
	products *product.Service
	log      *zap.SugaredLogger
}

func NewOrderHandlers(orders *order.Service, products *product.Service, log *zap.SugaredLogger) *OrderHandlers {
	return &OrderHandlers{orders: orders, products: products, log: log}
}

func (h *OrderHandlers) Register(r chi.Router) {
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders", h.ListMyOrders)
	r.Get("/orders/{id}", h.GetOrder)
}

func (h *OrderHandlers) RegisterAdmin(r chi.Router) {
	r.Get("/orders/statistics", h.Statistics)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
}

type orderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items           []orderLine         `json:"items"`
	ShippingAddress shipping.Address    `json:"shipping_address"`
	PaymentMethod   order.PaymentMethod `json:"payment_method"`
	Notes           string              `json:"notes,omitempty"`
}

// CreateOrder prices the submitted lines from the catalog, so clients cannot
// choose their own unit price.
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	items, err := h.priceLines(r, req.Items)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) || errors.Is(err, errUnavailable) {
			respondError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		respondServiceError(w, h.log, err)
		return
	}

	created, err := h.orders.CreateOrder(r.Context(), claims.ID(), items, req.ShippingAddress, req.PaymentMethod,
		order.WithNotes(req.Notes),
		order.WithContactEmail(claims.Email),
	)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *OrderHandlers) priceLines(r *http.Request, lines []orderLine) ([]cart.Item, error) {
	var c cart.Cart
	for _, line := range lines {
		if line.ProductID == "" {
			return nil, cart.ErrInvalidProduct
		}
		p, err := h.products.GetProductByID(r.Context(), line.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: %s", errUnavailable, p.Name)
		}
		err = c.Add(cart.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			UnitPrice: p.EffectivePrice(),
		})
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", line.ProductID, err)
		}
	}
	return c.Items(), nil
}

func (h *OrderHandlers) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetUserOrders(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder answers 404 for orders owned by someone else unless the caller is an admin.
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	if o.UserID != middleware.GetUserID(r.Context()) && !middleware.IsAdmin(r.Context()) {
		respondServiceError(w, h.log, order.ErrOrderNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status order.Status `json:"status"`
}

func (h *OrderHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.orders.UpdateOrderStatus(r.Context(), id, req.Status); err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

func (h *OrderHandlers) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.GetOrderStatistics(r.Context())
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

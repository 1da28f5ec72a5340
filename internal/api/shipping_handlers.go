package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/shipping"
)

// ShippingHandlers exposes the rate estimator and address validation. It
// holds no state; the estimator is pure.
type ShippingHandlers struct {
	now func() time.Time
}

func NewShippingHandlers() *ShippingHandlers {
	return &ShippingHandlers{now: time.Now}
}

func (h *ShippingHandlers) Register(r chi.Router) {
	r.Get("/shipping/providers", h.Providers)
	r.Post("/shipping/quote", h.Quote)
	r.Post("/shipping/validate-address", h.ValidateAddress)
	r.Get("/shipping/fee", h.OrderFee)
	r.Post("/shipping/tracking", h.NewTracking)
	r.Get("/shipping/tracking/{provider}/{number}", h.TrackingLink)
}

func (h *ShippingHandlers) Providers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, shipping.Providers())
}

type quoteRequest struct {
	FromDistrict  string `json:"from_district"`
	ToDistrict    string `json:"to_district"`
	WeightGrams   int64  `json:"weight_grams"`
	DeclaredValue int64  `json:"declared_value"`
}

// Quote returns one rate per carrier, cheapest first.
func (h *ShippingHandlers) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.WeightGrams <= 0 {
		respondError(w, "weight_grams must be positive", http.StatusBadRequest)
		return
	}
	if req.DeclaredValue < 0 {
		respondError(w, "declared_value must not be negative", http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, shipping.CalculateShippingCost(req.FromDistrict, req.ToDistrict, req.WeightGrams, req.DeclaredValue))
}

// ValidateAddress always answers 200; failures are listed in the body.
func (h *ShippingHandlers) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	var addr shipping.Address
	if err := decodeJSON(r, &addr); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, shipping.ValidateShippingAddress(addr))
}

// OrderFee previews the flat checkout fee for a cart subtotal.
func (h *ShippingHandlers) OrderFee(w http.ResponseWriter, r *http.Request) {
	subtotal := int64(queryInt(r, "subtotal", 0))
	respondJSON(w, http.StatusOK, map[string]int64{
		"subtotal":                subtotal,
		"shipping_fee":            order.ShippingFee(subtotal),
		"free_shipping_threshold": order.FreeShippingThreshold,
	})
}

type trackingRequest struct {
	Provider  shipping.ProviderID `json:"provider"`
	OrderDate *time.Time          `json:"order_date,omitempty"`
}

type trackingResponse struct {
	Provider          shipping.ProviderID `json:"provider"`
	TrackingNumber    string              `json:"tracking_number"`
	TrackingURL       string              `json:"tracking_url"`
	EstimatedDelivery time.Time           `json:"estimated_delivery"`
}

// NewTracking issues a tracking number and delivery estimate for a carrier.
func (h *ShippingHandlers) NewTracking(w http.ResponseWriter, r *http.Request) {
	var req trackingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := shipping.LookupProvider(req.Provider); !ok {
		respondError(w, "unknown provider", http.StatusBadRequest)
		return
	}

	orderDate := h.now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	number := shipping.GenerateTrackingNumber(req.Provider)
	respondJSON(w, http.StatusCreated, trackingResponse{
		Provider:          req.Provider,
		TrackingNumber:    number,
		TrackingURL:       shipping.TrackingURL(req.Provider, number),
		EstimatedDelivery: shipping.CalculateEstimatedDelivery(req.Provider, orderDate),
	})
}

func (h *ShippingHandlers) TrackingLink(w http.ResponseWriter, r *http.Request) {
	provider := shipping.ProviderID(chi.URLParam(r, "provider"))
	url := shipping.TrackingURL(provider, chi.URLParam(r, "number"))
	if url == "" {
		respondError(w, "unknown provider", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"tracking_url": url})
}

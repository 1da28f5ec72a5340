package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/auth"
	"github.com/example/ec-storefront/internal/domain/category"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/product"
	"github.com/example/ec-storefront/internal/health"
	"github.com/example/ec-storefront/internal/telemetry"
)

const requestTimeout = 60 * time.Second

// Services is everything the router serves.
type Services struct {
	Products   *product.Service
	Categories *category.Service
	Orders     *order.Service
	Monitor    *telemetry.Monitor
	Health     *health.Checker
	Sessions   *auth.JWTService
	Log        *zap.SugaredLogger
}

func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))

	products := NewProductHandlers(s.Products, s.Log)
	categories := NewCategoryHandlers(s.Categories, s.Log)
	orders := NewOrderHandlers(s.Orders, s.Products, s.Log)
	shipping := NewShippingHandlers()
	monitor := NewTelemetryHandlers(s.Monitor)

	r.Get("/health", NewHealthHandler(s.Health).Check)

	// Public routes; a valid session unlocks admin views of inactive products.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthMiddleware(s.Sessions))
		products.Register(r)
		categories.Register(r)
		shipping.Register(r)
		monitor.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.Sessions))
		orders.Register(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.Sessions))
		r.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleService))
		products.RegisterAdmin(r)
		categories.RegisterAdmin(r)
		orders.RegisterAdmin(r)
		monitor.RegisterAdmin(r)
	})

	return r
}

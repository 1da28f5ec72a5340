package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/ec-storefront/internal/auth"
	"github.com/example/ec-storefront/internal/domain/category"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/product"
	"github.com/example/ec-storefront/internal/domain/shipping"
	"github.com/example/ec-storefront/internal/health"
	"github.com/example/ec-storefront/internal/infrastructure/cache"
	"github.com/example/ec-storefront/internal/infrastructure/store/mocks"
	"github.com/example/ec-storefront/internal/model"
	"github.com/example/ec-storefront/internal/telemetry"
)

type testServer struct {
	handler    http.Handler
	sessions   *auth.JWTService
	catalog    *mocks.MockCatalogStore
	orders     *mocks.MockOrderStore
	procedures *mocks.MockProcedures
	monitor    *telemetry.Monitor
}

func newTestServer(t *testing.T, probes ...health.Probe) *testServer {
	t.Helper()
	log := zap.NewNop().Sugar()
	ts := &testServer{
		sessions:   auth.NewJWTService("test-secret", time.Hour),
		catalog:    mocks.NewMockCatalogStore(),
		orders:     mocks.NewMockOrderStore(),
		procedures: mocks.NewMockProcedures(),
		monitor:    telemetry.NewMonitor(telemetry.Config{Enabled: true, SampleRate: 1, Environment: "test"}, nil, log),
	}

	ok := health.ProbeFunc(func(context.Context) error { return nil })
	for len(probes) < 3 {
		probes = append(probes, ok)
	}

	c := cache.NewMemoryCache("storefront-test")
	ts.handler = NewRouter(Services{
		Products:   product.NewService(ts.catalog, ts.procedures, c, log),
		Categories: category.NewService(ts.catalog, c, log),
		Orders:     order.NewService(ts.orders, ts.procedures, nil, log),
		Monitor:    ts.monitor,
		Health:     health.NewChecker(probes[0], probes[1], probes[2], log),
		Sessions:   ts.sessions,
		Log:        log,
	})
	return ts
}

func (ts *testServer) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, _, err := ts.sessions.GenerateAccessToken(userID, userID+"@example.vn", role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func int64Ptr(v int64) *int64 { return &v }

const (
	shirtID   = "9a4e1c52-0000-4000-8000-000000000001"
	jeansID   = "9a4e1c52-0000-4000-8000-000000000002"
	capID     = "9a4e1c52-0000-4000-8000-000000000003"
	unknownID = "9a4e1c52-0000-4000-8000-0000000000ff"
)

func seedProducts(catalog *mocks.MockCatalogStore) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	catalog.SeedCategory(model.Category{ID: "c-1", Name: "Điện thoại", Slug: "dien-thoai", IsActive: true})
	catalog.SeedProduct(model.Product{ID: shirtID, Name: "Áo thun", Slug: "ao-thun", Price: 300000, IsActive: true, CreatedAt: base})
	catalog.SeedProduct(model.Product{ID: jeansID, Name: "Quần jean", Slug: "quan-jean", Price: 300000, SalePrice: int64Ptr(250000), IsActive: true, IsFeatured: true, CategoryID: "c-1", CreatedAt: base.Add(time.Hour)})
	catalog.SeedProduct(model.Product{ID: capID, Name: "Mũ cũ", Slug: "mu-cu", Price: 90000, IsActive: false, CreatedAt: base.Add(2 * time.Hour)})
}

func validAddress() shipping.Address {
	return shipping.Address{
		Name:     "Nguyễn Văn A",
		Phone:    "0912345678",
		Address:  "123 Đường Lê Lợi",
		Ward:     "Phường Bến Nghé",
		District: "Quận 1",
		City:     "Hồ Chí Minh",
	}
}

// ============================================
// Health
// ============================================

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[health.Report](t, rec)
	assert.True(t, report.Healthy)
	assert.Equal(t, "Tất cả hệ thống hoạt động bình thường", report.Message)
}

func TestHealth_DegradedIs503(t *testing.T) {
	down := health.ProbeFunc(func(context.Context) error { return errors.New("connection refused") })
	ts := newTestServer(t, down)
	rec := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	report := decodeBody[health.Report](t, rec)
	assert.False(t, report.Database)
	assert.Contains(t, report.Message, "Cơ sở dữ liệu")
}

// ============================================
// Products
// ============================================

func TestListProducts_ActiveNewestFirst(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)

	rec := ts.do(t, http.MethodGet, "/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeBody[[]model.Product](t, rec)
	require.Len(t, products, 2)
	assert.Equal(t, jeansID, products[0].ID)
	assert.Equal(t, shirtID, products[1].ID)
}

func TestListProducts_QueryParams(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)

	rec := ts.do(t, http.MethodGet, "/products?category=dien-thoai&search=jean&limit=500&offset=-1", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ts.catalog.ListCalls, 1)
	f := ts.catalog.ListCalls[0]
	assert.Equal(t, "dien-thoai", f.CategorySlug)
	assert.Equal(t, "jean", f.Search)
	assert.Equal(t, product.MaxLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.False(t, f.IncludeInactive)
}

func TestListProducts_IncludeInactiveAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)

	rec := ts.do(t, http.MethodGet, "/products?include_inactive=true", ts.token(t, "u-1", auth.RoleCustomer), nil)
	assert.Len(t, decodeBody[[]model.Product](t, rec), 2)

	rec = ts.do(t, http.MethodGet, "/products?include_inactive=true", ts.token(t, "admin", auth.RoleAdmin), nil)
	assert.Len(t, decodeBody[[]model.Product](t, rec), 3)
}

func TestGetProduct(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)

	rec := ts.do(t, http.MethodGet, "/products/slug/quan-jean", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jeansID, decodeBody[model.Product](t, rec).ID)

	rec = ts.do(t, http.MethodGet, "/products/"+shirtID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/products/"+unknownID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "product not found")

	// Deactivated products are visible to admins only.
	rec = ts.do(t, http.MethodGet, "/products/"+capID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = ts.do(t, http.MethodGet, "/products/"+capID, ts.token(t, "admin", auth.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)
	admin := ts.token(t, "admin", auth.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"product", http.MethodGet, "/products/abc", nil},
		{"recommendations", http.MethodGet, "/products/abc/recommendations", nil},
		{"order", http.MethodGet, "/orders/abc", nil},
		{"update product", http.MethodPatch, "/admin/products/abc", map[string]any{"price": 990000}},
		{"delete product", http.MethodDelete, "/admin/products/abc", nil},
		{"order status", http.MethodPatch, "/admin/orders/abc/status", updateStatusRequest{Status: order.StatusConfirmed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, admin, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, ts.catalog.UpdateCalls)
	assert.Empty(t, ts.catalog.DeactivateCalls)
	assert.Empty(t, ts.orders.UpdateStatusCalls)
	assert.Empty(t, ts.procedures.RecommendationCalls)
}

func TestFeaturedAndRecommendations(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)
	ts.procedures.Recommendations = []model.Product{{ID: shirtID}, {ID: jeansID}}

	rec := ts.do(t, http.MethodGet, "/products/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	featured := decodeBody[[]model.Product](t, rec)
	require.Len(t, featured, 1)
	assert.Equal(t, jeansID, featured[0].ID)

	rec = ts.do(t, http.MethodGet, "/products/"+jeansID+"/recommendations?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Product](t, rec), 1)
	require.Len(t, ts.procedures.RecommendationCalls, 1)
	assert.Equal(t, jeansID, ts.procedures.RecommendationCalls[0].ProductID)
}

func TestAdminProducts_RequireAdmin(t *testing.T) {
	ts := newTestServer(t)
	body := product.Input{Name: "Giày thể thao", Price: 1200000, Stock: 5}

	rec := ts.do(t, http.MethodPost, "/admin/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/products", ts.token(t, "u-1", auth.RoleCustomer), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, ts.catalog.InsertCalls)
}

func TestAdminProducts_Lifecycle(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, "admin", auth.RoleAdmin)

	rec := ts.do(t, http.MethodPost, "/admin/products", admin, product.Input{Name: "Giày thể thao", Price: 1200000, Stock: 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[model.Product](t, rec)
	assert.Equal(t, "giày-thể-thao", created.Slug)

	rec = ts.do(t, http.MethodPatch, "/admin/products/"+created.ID, admin, map[string]any{"price": 990000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(990000), decodeBody[model.Product](t, rec).Price)

	rec = ts.do(t, http.MethodDelete, "/admin/products/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	stored, ok := ts.catalog.Product(created.ID)
	require.True(t, ok)
	assert.False(t, stored.IsActive)
}

func TestAdminProducts_ValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, "admin", auth.RoleAdmin)

	rec := ts.do(t, http.MethodPost, "/admin/products", admin, product.Input{Name: "Áo", Price: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPatch, "/admin/products/"+shirtID, admin, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no fields to update")

	req := httptest.NewRequest(http.MethodPost, "/admin/products", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+admin)
	out := httptest.NewRecorder()
	ts.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestStoreFailureIsGeneric500(t *testing.T) {
	ts := newTestServer(t)
	ts.catalog.Err = errors.New("pq: password authentication failed")

	rec := ts.do(t, http.MethodGet, "/products", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

// ============================================
// Categories
// ============================================

func TestCategories(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)

	rec := ts.do(t, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Category](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/categories/dien-thoai", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/categories/khong-co", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/categories", ts.token(t, "admin", auth.RoleAdmin),
		CreateCategoryRequest{Name: "Phụ kiện"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "phu-kien", decodeBody[model.Category](t, rec).Slug)
}

// ============================================
// Shipping
// ============================================

func TestShippingQuote_SortedOnePerProvider(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/shipping/quote", "", quoteRequest{
		FromDistrict: "Quận 1", ToDistrict: "Quận 3", WeightGrams: 400, DeclaredValue: 800000,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	rates := decodeBody[[]shipping.ShippingRate](t, rec)
	require.Len(t, rates, len(shipping.Providers()))
	for i := 1; i < len(rates); i++ {
		assert.LessOrEqual(t, rates[i-1].Cost, rates[i].Cost)
	}
}

func TestShippingQuote_RejectsBadWeight(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/shipping/quote", "", quoteRequest{WeightGrams: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShippingValidateAddress(t *testing.T) {
	ts := newTestServer(t)

	addr := validAddress()
	addr.Phone = "123"
	rec := ts.do(t, http.MethodPost, "/shipping/validate-address", "", addr)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[shipping.ValidationResult](t, rec)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{shipping.MsgInvalidPhone}, result.Errors)
}

func TestShippingFee(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/shipping/fee?subtotal=500000", "", nil)
	assert.Equal(t, int64(0), decodeBody[map[string]int64](t, rec)["shipping_fee"])

	rec = ts.do(t, http.MethodGet, "/shipping/fee?subtotal=499999", "", nil)
	assert.Equal(t, order.StandardShippingFee, decodeBody[map[string]int64](t, rec)["shipping_fee"])
}

func TestShippingTracking(t *testing.T) {
	ts := newTestServer(t)
	saturday := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	rec := ts.do(t, http.MethodPost, "/shipping/tracking", "", trackingRequest{Provider: shipping.ProviderGHN, OrderDate: &saturday})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[trackingResponse](t, rec)
	assert.Regexp(t, `^GHN\d{11}$`, resp.TrackingNumber)
	assert.Contains(t, resp.TrackingURL, resp.TrackingNumber)
	assert.NotEqual(t, time.Saturday, resp.EstimatedDelivery.Weekday())
	assert.NotEqual(t, time.Sunday, resp.EstimatedDelivery.Weekday())

	rec = ts.do(t, http.MethodPost, "/shipping/tracking", "", trackingRequest{Provider: "dhl"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/shipping/tracking/ghtk/GHTK123", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://i.ghtk.vn/GHTK123", decodeBody[map[string]string](t, rec)["tracking_url"])

	rec = ts.do(t, http.MethodGet, "/shipping/tracking/dhl/X1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================
// Orders
// ============================================

func checkout(lines ...orderLine) createOrderRequest {
	return createOrderRequest{
		Items:           lines,
		ShippingAddress: validAddress(),
		PaymentMethod:   order.PaymentCOD,
	}
}

func TestCreateOrder_RequiresSession(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/orders", "", checkout(orderLine{ProductID: shirtID, Quantity: 1}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrder_PricesFromCatalog(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)

	rec := ts.do(t, http.MethodPost, "/orders", ts.token(t, "u-1", auth.RoleCustomer), checkout(
		orderLine{ProductID: shirtID, Quantity: 1},
		orderLine{ProductID: jeansID, Quantity: 2},
	))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[model.Order](t, rec)
	assert.Equal(t, "u-1", created.UserID)
	// 300,000 + 2 x 250,000 sale price: free shipping from 500,000.
	assert.Equal(t, int64(800000), created.TotalAmount)
	assert.Equal(t, int64(0), created.ShippingFee)
	assert.Equal(t, model.OrderStatusPending, created.Status)
	require.Len(t, created.Items, 2)
	assert.Equal(t, int64(250000), created.Items[1].UnitPrice)

	require.Len(t, ts.procedures.StockCalls, 2)
	assert.Equal(t, mocks.StockCall{ProductID: jeansID, QuantitySold: 2}, ts.procedures.StockCalls[1])
}

func TestCreateOrder_MergesDuplicateLines(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)

	rec := ts.do(t, http.MethodPost, "/orders", ts.token(t, "u-1", auth.RoleCustomer), checkout(
		orderLine{ProductID: shirtID, Quantity: 1},
		orderLine{ProductID: shirtID, Quantity: 1},
	))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[model.Order](t, rec)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 2, created.Items[0].Quantity)
	assert.Equal(t, int64(600000), created.TotalAmount)
}

func TestCreateOrder_Rejections(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)
	token := ts.token(t, "u-1", auth.RoleCustomer)

	badAddress := checkout(orderLine{ProductID: shirtID, Quantity: 1})
	badAddress.ShippingAddress.Phone = "123"
	badPayment := checkout(orderLine{ProductID: shirtID, Quantity: 1})
	badPayment.PaymentMethod = "paypal"

	tests := []struct {
		name string
		body createOrderRequest
		want int
	}{
		{"empty cart", checkout(), http.StatusBadRequest},
		{"zero quantity", checkout(orderLine{ProductID: shirtID, Quantity: 0}), http.StatusBadRequest},
		{"unknown product", checkout(orderLine{ProductID: unknownID, Quantity: 1}), http.StatusUnprocessableEntity},
		{"malformed product id", checkout(orderLine{ProductID: "nope", Quantity: 1}), http.StatusUnprocessableEntity},
		{"inactive product", checkout(orderLine{ProductID: capID, Quantity: 1}), http.StatusUnprocessableEntity},
		{"invalid address", badAddress, http.StatusBadRequest},
		{"invalid payment", badPayment, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/orders", token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, ts.orders.InsertCalls)
}

func TestOrders_OwnershipAndListing(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)
	owner := ts.token(t, "u-1", auth.RoleCustomer)

	rec := ts.do(t, http.MethodPost, "/orders", owner, checkout(orderLine{ProductID: shirtID, Quantity: 1}))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[model.Order](t, rec)

	rec = ts.do(t, http.MethodGet, "/orders", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Order](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/orders/"+created.ID, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/orders/"+created.ID, ts.token(t, "u-2", auth.RoleCustomer), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/orders/"+created.ID, ts.token(t, "admin", auth.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOrders_StatusAndStatistics(t *testing.T) {
	ts := newTestServer(t)
	seedProducts(ts.catalog)
	admin := ts.token(t, "admin", auth.RoleAdmin)
	ts.procedures.Statistics = &model.OrderStatistics{TotalOrders: 3, TotalRevenue: 1500000}

	rec := ts.do(t, http.MethodPost, "/orders", ts.token(t, "u-1", auth.RoleCustomer), checkout(orderLine{ProductID: shirtID, Quantity: 1}))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[model.Order](t, rec)

	rec = ts.do(t, http.MethodPatch, "/admin/orders/"+created.ID+"/status", admin, updateStatusRequest{Status: order.StatusShipping})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, ts.orders.UpdateStatusCalls, 1)
	assert.Equal(t, order.StatusShipping, ts.orders.UpdateStatusCalls[0].Status)

	rec = ts.do(t, http.MethodPatch, "/admin/orders/"+created.ID+"/status", admin, updateStatusRequest{Status: "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPatch, "/admin/orders/"+unknownID+"/status", admin, updateStatusRequest{Status: order.StatusConfirmed})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/admin/orders/statistics", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[model.OrderStatistics](t, rec)
	assert.Equal(t, int64(3), stats.TotalOrders)
}

// ============================================
// Telemetry
// ============================================

func TestTelemetry_RecordAndSummarize(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, "admin", auth.RoleAdmin)

	for _, v := range []float64{100, 300} {
		rec := ts.do(t, http.MethodPost, "/telemetry/metrics", "", metricRequest{Name: "page_load", Value: v})
		require.Equal(t, http.StatusAccepted, rec.Code)
	}
	rec := ts.do(t, http.MethodPost, "/telemetry/metrics", "", metricRequest{Name: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/admin/telemetry/summary", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[map[string]telemetry.MetricSummary](t, rec)
	assert.Equal(t, 2, summary["page_load"].Count)
	assert.Equal(t, 200.0, summary["page_load"].Avg)
}

func TestTelemetry_RecordErrorClassifies(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/telemetry/errors", "", errorRequest{Message: "Unauthorized access"})

	require.Equal(t, http.StatusCreated, rec.Code)
	event := decodeBody[telemetry.ErrorEvent](t, rec)
	assert.Equal(t, telemetry.SeverityHigh, event.Severity)
	assert.Equal(t, "test", event.Environment)

	rec = ts.do(t, http.MethodGet, "/admin/telemetry/errors", ts.token(t, "admin", auth.RoleAdmin), nil)
	assert.Len(t, decodeBody[[]telemetry.ErrorEvent](t, rec), 1)
}

func TestTelemetry_JourneyAndCleanup(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/telemetry/journeys", "", journeyRequest{Step: "checkout_started"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, decodeBody[map[string]bool](t, rec)["recorded"])
	assert.Len(t, ts.monitor.Journeys(), 1)

	rec = ts.do(t, http.MethodPost, "/admin/telemetry/cleanup?hours=0", ts.token(t, "admin", auth.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

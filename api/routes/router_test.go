package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/asif-amar/shopping-mcp/internal/retailers"
	"github.com/asif-amar/shopping-mcp/internal/shopping"
	"github.com/asif-amar/shopping-mcp/internal/tools"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
	"github.com/asif-amar/shopping-mcp/pkg/metrics"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

type stubAdapter struct {
	website shopping.Website
}

func (a stubAdapter) Website() shopping.Website { return a.website }

func (a stubAdapter) SearchProducts(context.Context, shopping.SearchOptions) shopping.Result[shopping.SearchResult] {
	return shopping.Ok(a.website, shopping.SearchResult{Page: 1})
}

func (a stubAdapter) AddToCart(_ context.Context, productID string, qty int, _ string) shopping.Result[shopping.AddToCartOutcome] {
	return shopping.Ok(a.website, shopping.AddToCartOutcome{Message: "added"})
}

func (a stubAdapter) RemoveFromCart(context.Context, string) shopping.Result[bool] {
	return shopping.Ok(a.website, true)
}

func (a stubAdapter) UpdateCartQuantity(_ context.Context, id string, qty int) shopping.Result[shopping.CartItem] {
	return shopping.Ok(a.website, shopping.CartItem{ID: id, Quantity: float64(qty)})
}

func (a stubAdapter) GetCartContents(context.Context) shopping.Result[shopping.Cart] {
	return shopping.Ok(a.website, shopping.Cart{Items: []shopping.CartItem{}, Currency: "ILS"})
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App:       config.AppConfig{Env: "dev"},
		RateLimit: config.RateLimitConfig{Window: time.Minute, Limit: 60},
	}
	construct := func(website shopping.Website) retailers.Constructor {
		return func(config.RetailersConfig, []transport.Option) (shopping.Adapter, error) {
			return stubAdapter{website: website}, nil
		}
	}
	factory := retailers.NewFactory(cfg.Retailers,
		retailers.WithConstructor(shopping.WebsiteRamiLevy, "RamiLevy", construct(shopping.WebsiteRamiLevy)),
		retailers.WithConstructor(shopping.WebsiteShufersal, "Shufersal", construct(shopping.WebsiteShufersal)),
	)

	reg := prometheus.NewRegistry()
	svc, err := tools.NewService(factory, metrics.NewAdapterMetrics(reg), logger.Nop())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return NewRouter(Dependencies{
		Config:   cfg,
		Logger:   logger.Nop(),
		Tools:    svc,
		Websites: factory,
		Metrics:  reg,
	})
}

func TestRouterServesRoutes(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/api/v1/websites", "", http.StatusOK},
		{http.MethodGet, "/api/v1/websites/ramilevy/config", "", http.StatusOK},
		{http.MethodGet, "/api/v1/websites/ramilevy/products?q=milk", "", http.StatusOK},
		{http.MethodGet, "/api/v1/websites/amazon/products?q=milk", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/websites/shufersal/cart", "", http.StatusOK},
		{http.MethodPost, "/api/v1/websites/ramilevy/cart/items", `{"product_id":"7290000","quantity":1}`, http.StatusOK},
		{http.MethodPatch, "/api/v1/websites/ramilevy/cart/items/rl_7290000", `{"quantity":2}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/websites/ramilevy/cart/items/rl_7290000", "", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		var req *http.Request
		if tt.body != "" {
			req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		} else {
			req = httptest.NewRequest(tt.method, tt.path, nil)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Fatalf("%s %s: expected %d got %d (%s)", tt.method, tt.path, tt.want, rec.Code, rec.Body.String())
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s %s: missing request id header", tt.method, tt.path)
		}
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	handler := newTestHandler(t)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/websites/ramilevy/products?q=milk", nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `adapter_operation_success{operation="search_products",website="ramilevy"} 1`) {
		t.Fatalf("expected search success counter, got:\n%s", rec.Body.String())
	}
}

package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asif-amar/shopping-mcp/internal/retailers"
	"github.com/asif-amar/shopping-mcp/internal/shopping"
	"github.com/asif-amar/shopping-mcp/internal/tools"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
)

type fakeService struct {
	search   tools.SearchInput
	add      tools.AddToCartInput
	removed  string
	updated  float64
	lastSite string
}

func (f *fakeService) SearchProducts(_ context.Context, in tools.SearchInput) shopping.Result[shopping.SearchResult] {
	f.search = in
	return shopping.Ok(shopping.Website(in.Website), shopping.SearchResult{Page: in.Page, TotalCount: 1})
}

func (f *fakeService) AddToCart(_ context.Context, in tools.AddToCartInput) shopping.Result[shopping.AddToCartOutcome] {
	f.add = in
	return shopping.Ok(shopping.Website(in.Website), shopping.AddToCartOutcome{Message: "added"})
}

func (f *fakeService) RemoveFromCart(_ context.Context, website, id string) shopping.Result[bool] {
	f.lastSite, f.removed = website, id
	if website == string(shopping.WebsiteShufersal) {
		return shopping.NotImplemented[bool](shopping.WebsiteShufersal, "removeFromCart")
	}
	return shopping.Ok(shopping.Website(website), true)
}

func (f *fakeService) UpdateCartQuantity(_ context.Context, website, id string, qty float64) shopping.Result[shopping.CartItem] {
	f.lastSite, f.updated = website, qty
	return shopping.Ok(shopping.Website(website), shopping.CartItem{ID: id, Quantity: qty})
}

func (f *fakeService) GetCartContents(_ context.Context, website string) shopping.Result[shopping.Cart] {
	f.lastSite = website
	return shopping.Fail[shopping.Cart](shopping.Website(website), pkgerrors.New(pkgerrors.CodeUpstream, "fetch cart: upstream status 502"))
}

type fakeCatalog struct{}

func (fakeCatalog) SupportedWebsites() []shopping.Website { return shopping.Websites() }

func (fakeCatalog) ValidateWebsiteConfig(website string) (retailers.ConfigReport, error) {
	w, ok := shopping.ParseWebsite(website)
	if !ok {
		return retailers.ConfigReport{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported website: "+website)
	}
	if w == shopping.WebsiteShufersal {
		return retailers.ConfigReport{Website: w, Missing: []string{config.EnvShufersalCSRFToken}}, nil
	}
	return retailers.ConfigReport{Website: w, Valid: true, Missing: []string{}}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(svc tools.Service) http.Handler {
	logg := logger.Nop()
	r := chi.NewRouter()
	r.Get("/websites", WebsitesList(fakeCatalog{}, logg))
	r.Get("/websites/{website}/config", WebsiteConfig(fakeCatalog{}, logg))
	r.Get("/websites/{website}/products", ProductsSearch(svc, logg))
	r.Get("/websites/{website}/cart", CartGet(svc, logg))
	r.Post("/websites/{website}/cart/items", CartAddItem(svc, logg))
	r.Patch("/websites/{website}/cart/items/{itemID}", CartUpdateItem(svc, logg))
	r.Delete("/websites/{website}/cart/items/{itemID}", CartRemoveItem(svc, logg))
	return r
}

func serve(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return rec, payload
}

func TestProductsSearchPassesQuery(t *testing.T) {
	svc := &fakeService{}
	rec, payload := serve(t, newTestRouter(svc), http.MethodGet, "/websites/ramilevy/products?q=milk&category=Dairy&min_price=2&max_price=10.5&limit=5&page=2", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ramilevy", payload["website"])
	assert.Equal(t, "milk", svc.search.Query)
	assert.Equal(t, "Dairy", svc.search.Category)
	require.NotNil(t, svc.search.MinPrice)
	require.NotNil(t, svc.search.MaxPrice)
	assert.Equal(t, 2.0, *svc.search.MinPrice)
	assert.Equal(t, 10.5, *svc.search.MaxPrice)
	assert.Equal(t, 5, svc.search.Limit)
	assert.Equal(t, 2, svc.search.Page)
}

func TestProductsSearchRejectsBadParams(t *testing.T) {
	for _, target := range []string{
		"/websites/ramilevy/products?q=milk&limit=500",
		"/websites/ramilevy/products?q=milk&page=0",
		"/websites/ramilevy/products?q=milk&min_price=cheap",
	} {
		svc := &fakeService{}
		rec, payload := serve(t, newTestRouter(svc), http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, string(pkgerrors.CodeValidation), payload["error"].(map[string]any)["code"], target)
		assert.Empty(t, svc.search.Query, "service must not be called for %s", target)
	}
}

func TestCartAddItem(t *testing.T) {
	svc := &fakeService{}
	rec, _ := serve(t, newTestRouter(svc), http.MethodPost, "/websites/shufersal/cart/items", `{"product_id":"P_100","quantity":2,"variant":"1L"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tools.AddToCartInput{Website: "shufersal", ProductID: "P_100", Quantity: 2, Variant: "1L"}, svc.add)

	rec, payload := serve(t, newTestRouter(svc), http.MethodPost, "/websites/shufersal/cart/items", `{"quantity":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"product_id": "is required"}, payload["error"].(map[string]any)["details"])
}

func TestCartUpdateAllowsZero(t *testing.T) {
	svc := &fakeService{updated: -1}
	rec, _ := serve(t, newTestRouter(svc), http.MethodPatch, "/websites/ramilevy/cart/items/rl_7", `{"quantity":0}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, svc.updated)

	rec, _ = serve(t, newTestRouter(svc), http.MethodPatch, "/websites/ramilevy/cart/items/rl_7", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRemoveNotImplemented(t *testing.T) {
	svc := &fakeService{}
	rec, payload := serve(t, newTestRouter(svc), http.MethodDelete, "/websites/shufersal/cart/items/sh_P_1", "")

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "shufersal", payload["website"])
	assert.Equal(t, "sh_P_1", svc.removed)
}

func TestCartGetUpstreamFailure(t *testing.T) {
	svc := &fakeService{}
	rec, payload := serve(t, newTestRouter(svc), http.MethodGet, "/websites/ramilevy/cart", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	errBody := payload["error"].(map[string]any)
	assert.Equal(t, string(pkgerrors.CodeUpstream), errBody["code"])
	assert.Equal(t, "fetch cart: upstream status 502", errBody["message"])
}

func TestWebsitesList(t *testing.T) {
	rec, payload := serve(t, newTestRouter(&fakeService{}), http.MethodGet, "/websites", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "ramilevy", data[0].(map[string]any)["website"])
	assert.Equal(t, false, data[1].(map[string]any)["valid"])

	rec, _ = serve(t, newTestRouter(&fakeService{}), http.MethodGet, "/websites/amazon/config", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, logger.Nop(), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HealthReady(cfg, logger.Nop(), fakePinger{err: errors.New("dial tcp: refused")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-Shopping-Env"))
}

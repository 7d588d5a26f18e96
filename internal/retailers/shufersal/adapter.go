package shufersal

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/asif-amar/shopping-mcp/internal/shopping"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/pagination"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

const (
	Name = "Shufersal"

	cartItemPrefix = "sh_"
	currency       = "ILS"

	searchEndpoint   = "/online/he/search/results"
	cartAddEndpoint  = "/online/he/cart/add"
	miniCartEndpoint = "/online/he/cart/miniCart"
)

var productCodePattern = regexp.MustCompile(`^P_\d+$`)

// Adapter covers search, add to cart and cart reads. Shufersal's session API has
// no endpoint for editing a single line, so remove and update are not offered.
type Adapter struct {
	client  transport.Requester
	baseURL string
	headers map[string]string
}

var _ shopping.Adapter = (*Adapter)(nil)

type options struct {
	requester        transport.Requester
	transportOptions []transport.Option
}

type Option func(*options)

func WithRequester(r transport.Requester) Option {
	return func(o *options) {
		o.requester = r
	}
}

func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *options) {
		o.transportOptions = append(o.transportOptions, opts...)
	}
}

func New(cfg config.ShufersalConfig, opts ...Option) (*Adapter, error) {
	if strings.TrimSpace(cfg.SessionCookie) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "missing "+config.EnvShufersalSessionCookie)
	}
	if strings.TrimSpace(cfg.CSRFToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "missing "+config.EnvShufersalCSRFToken)
	}

	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	client := o.requester
	if client == nil {
		c, err := transport.New(cfg.BaseURL, o.transportOptions...)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "invalid base url")
		}
		client = c
	}

	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: map[string]string{
			"Cookie":           strings.TrimSpace(cfg.SessionCookie),
			"Csrftoken":        strings.TrimSpace(cfg.CSRFToken),
			"X-Requested-With": "XMLHttpRequest",
		},
	}, nil
}

func (a *Adapter) Website() shopping.Website {
	return shopping.WebsiteShufersal
}

func (a *Adapter) SearchProducts(ctx context.Context, opts shopping.SearchOptions) shopping.Result[shopping.SearchResult] {
	return shopping.Guard(a.Website(), func() shopping.Result[shopping.SearchResult] {
		query := strings.TrimSpace(opts.Query)
		if query == "" {
			return shopping.Fail[shopping.SearchResult](a.Website(), pkgerrors.New(pkgerrors.CodeValidation, "search query is required"))
		}
		page := pagination.Normalize(opts.Limit, opts.Page)

		body, err := a.request(ctx, transport.Request{
			Method:   http.MethodGet,
			Endpoint: searchEndpoint,
			Params: map[string]string{
				"q":     query,
				"limit": strconv.Itoa(page.Limit),
				"page":  strconv.Itoa(page.Page - 1),
			},
		})
		if err != nil {
			return shopping.Fail[shopping.SearchResult](a.Website(), pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "search products"))
		}

		var resp searchResponse
		if err := transport.Decode(body, &resp); err != nil {
			return shopping.Fail[shopping.SearchResult](a.Website(), pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected search response"))
		}

		products := make([]shopping.Product, 0, len(resp.Results))
		filtered := false
		for _, item := range resp.Results {
			product := shopping.SanitizeProduct(a.toProduct(item))
			if !opts.Matches(product) {
				filtered = true
				continue
			}
			products = append(products, product)
		}
		products = pagination.Truncate(products, page.Limit)

		total := resp.Pagination.TotalNumberOfResults
		if filtered || total < len(products) {
			total = len(products)
		}
		return shopping.Ok(a.Website(), shopping.SearchResult{
			Products:   products,
			TotalCount: total,
			Page:       page.Page,
			HasMore:    page.Page < resp.Pagination.NumberOfPages,
		})
	})
}

// AddToCart posts a single line. Shufersal answers with a rendered mini-cart
// rather than the resulting line, so the outcome is a confirmation message.
func (a *Adapter) AddToCart(ctx context.Context, productID string, quantity int, variant string) shopping.Result[shopping.AddToCartOutcome] {
	return shopping.Guard(a.Website(), func() shopping.Result[shopping.AddToCartOutcome] {
		productID = strings.TrimSpace(productID)
		if !productCodePattern.MatchString(productID) {
			return shopping.Fail[shopping.AddToCartOutcome](a.Website(), pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
		}
		if quantity < 1 {
			return shopping.Fail[shopping.AddToCartOutcome](a.Website(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"))
		}

		payload := map[string]any{
			"productCodePost": productID,
			"qty":             quantity,
			"frontQuantity":   quantity,
			"sellingMethod":   "BY_UNIT",
		}
		if variant != "" {
			payload["comment"] = variant
		}
		if _, err := a.request(ctx, transport.Request{
			Method:   http.MethodPost,
			Endpoint: cartAddEndpoint,
			Body:     payload,
		}); err != nil {
			return shopping.Fail[shopping.AddToCartOutcome](a.Website(), pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "add to cart"))
		}
		return shopping.Ok(a.Website(), shopping.AddToCartOutcome{
			Message: fmt.Sprintf("added %d x %s to cart", quantity, productID),
		})
	})
}

func (a *Adapter) RemoveFromCart(ctx context.Context, cartItemID string) shopping.Result[bool] {
	return shopping.NotImplemented[bool](a.Website(), "removeFromCart")
}

func (a *Adapter) UpdateCartQuantity(ctx context.Context, cartItemID string, quantity int) shopping.Result[shopping.CartItem] {
	return shopping.NotImplemented[shopping.CartItem](a.Website(), "updateCartQuantity")
}

func (a *Adapter) GetCartContents(ctx context.Context) shopping.Result[shopping.Cart] {
	return shopping.Guard(a.Website(), func() shopping.Result[shopping.Cart] {
		body, err := a.request(ctx, transport.Request{Method: http.MethodGet, Endpoint: miniCartEndpoint})
		if err != nil {
			return shopping.Fail[shopping.Cart](a.Website(), pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "fetch cart"))
		}
		var resp miniCartResponse
		if err := transport.Decode(body, &resp); err != nil {
			return shopping.Fail[shopping.Cart](a.Website(), pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected cart response"))
		}

		cart := shopping.Cart{Items: make([]shopping.CartItem, 0, len(resp.Entries)), Currency: currency}
		for _, entry := range resp.Entries {
			item := shopping.SanitizeCartItem(shopping.CartItem{
				ID:           cartItemPrefix + entry.Product.Code,
				ProductID:    entry.Product.Code,
				ProductTitle: entry.Product.Name,
				Quantity:     entry.Quantity,
				UnitPrice:    entry.BasePrice.Value,
				TotalPrice:   entry.TotalPrice.Value,
				ImageURL:     a.absoluteURL(firstImage(entry.Product.Images)),
			})
			cart.Items = append(cart.Items, item)
			cart.TotalItems += item.Quantity
			cart.TotalPrice += item.TotalPrice
		}
		return shopping.Ok(a.Website(), cart)
	})
}

func (a *Adapter) request(ctx context.Context, req transport.Request) (any, error) {
	headers := make(map[string]string, len(a.headers)+len(req.Headers))
	for k, v := range a.headers {
		headers[k] = v
	}
	for k, v := range req.Headers {
		headers[k] = v
	}
	req.Headers = headers
	return a.client.Request(ctx, req)
}

func (a *Adapter) toProduct(item searchItem) shopping.Product {
	return shopping.Product{
		ID:           item.Code,
		Title:        item.Name,
		Description:  item.Description,
		Price:        item.Price.Value,
		Currency:     currency,
		ImageURL:     a.absoluteURL(firstImage(item.Images)),
		Availability: !strings.EqualFold(item.Stock.StockLevelStatus, "outOfStock"),
		Category:     item.CategoryName,
		Brand:        item.BrandName,
		URL:          a.absoluteURL(item.URL),
	}
}

func (a *Adapter) absoluteURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	return a.baseURL + "/" + strings.TrimLeft(path, "/")
}

func firstImage(images []imageField) string {
	for _, img := range images {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}

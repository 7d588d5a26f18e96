package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/asif-amar/shopping-mcp/api/validators"
	"github.com/asif-amar/shopping-mcp/internal/shopping"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
)

const (
	OpSearch    = "search_products"
	OpAddToCart = "add_to_cart"
	OpRemove    = "remove_from_cart"
	OpUpdate    = "update_cart_quantity"
	OpGetCart   = "get_cart_contents"

	minAddQuantity = 1
)

type adapterProvider interface {
	GetAdapter(website string) (shopping.Adapter, error)
}

type metricsRecorder interface {
	Observe(website, operation string, duration time.Duration, ok bool)
}

// Service validates raw tool arguments and routes them to the website's adapter.
// Invalid arguments never reach an adapter.
type Service interface {
	SearchProducts(ctx context.Context, input SearchInput) shopping.Result[shopping.SearchResult]
	AddToCart(ctx context.Context, input AddToCartInput) shopping.Result[shopping.AddToCartOutcome]
	RemoveFromCart(ctx context.Context, website, cartItemID string) shopping.Result[bool]
	UpdateCartQuantity(ctx context.Context, website, cartItemID string, quantity float64) shopping.Result[shopping.CartItem]
	GetCartContents(ctx context.Context, website string) shopping.Result[shopping.Cart]
}

type SearchInput struct {
	Website  string
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Page     int
}

type AddToCartInput struct {
	Website   string
	ProductID string
	Quantity  float64
	Variant   string
}

type service struct {
	adapters adapterProvider
	metrics  metricsRecorder
	logg     *logger.Logger
}

// NewService builds the tool service. metrics and logg may be nil.
func NewService(adapters adapterProvider, metrics metricsRecorder, logg *logger.Logger) (Service, error) {
	if adapters == nil {
		return nil, fmt.Errorf("adapter provider required")
	}
	return &service{adapters: adapters, metrics: metrics, logg: logg}, nil
}

func (s *service) SearchProducts(ctx context.Context, input SearchInput) shopping.Result[shopping.SearchResult] {
	website := websiteOf(input.Website)
	query, err := validators.ValidateSearchQuery(input.Query)
	if err != nil {
		return shopping.Fail[shopping.SearchResult](website, err)
	}
	category, err := validators.ValidateCategory(input.Category)
	if err != nil {
		return shopping.Fail[shopping.SearchResult](website, err)
	}
	if input.MinPrice != nil || input.MaxPrice != nil {
		minPrice, maxPrice := 0.0, float64(validators.MaxPrice)
		if input.MinPrice != nil {
			minPrice = *input.MinPrice
		}
		if input.MaxPrice != nil {
			maxPrice = *input.MaxPrice
		}
		if err := validators.ValidatePriceRange(minPrice, maxPrice); err != nil {
			return shopping.Fail[shopping.SearchResult](website, err)
		}
	}

	opts := shopping.SearchOptions{
		Query:    query,
		Category: category,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Limit:    input.Limit,
		Page:     input.Page,
	}
	return run(ctx, s, input.Website, OpSearch, func(a shopping.Adapter) shopping.Result[shopping.SearchResult] {
		return a.SearchProducts(ctx, opts)
	})
}

func (s *service) AddToCart(ctx context.Context, input AddToCartInput) shopping.Result[shopping.AddToCartOutcome] {
	website := websiteOf(input.Website)
	productID, err := validators.ValidateProductID(input.ProductID, input.Website)
	if err != nil {
		return shopping.Fail[shopping.AddToCartOutcome](website, err)
	}
	quantity, err := validators.ValidateQuantity(input.Quantity)
	if err != nil {
		return shopping.Fail[shopping.AddToCartOutcome](website, err)
	}
	if quantity < minAddQuantity {
		return shopping.Fail[shopping.AddToCartOutcome](website, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"))
	}
	variant, err := validators.ValidateVariant(input.Variant)
	if err != nil {
		return shopping.Fail[shopping.AddToCartOutcome](website, err)
	}

	return run(ctx, s, input.Website, OpAddToCart, func(a shopping.Adapter) shopping.Result[shopping.AddToCartOutcome] {
		return a.AddToCart(ctx, productID, quantity, variant)
	})
}

func (s *service) RemoveFromCart(ctx context.Context, website, cartItemID string) shopping.Result[bool] {
	id, err := validators.ValidateCartItemID(cartItemID)
	if err != nil {
		return shopping.Fail[bool](websiteOf(website), err)
	}
	return run(ctx, s, website, OpRemove, func(a shopping.Adapter) shopping.Result[bool] {
		return a.RemoveFromCart(ctx, id)
	})
}

func (s *service) UpdateCartQuantity(ctx context.Context, website, cartItemID string, quantity float64) shopping.Result[shopping.CartItem] {
	id, err := validators.ValidateCartItemID(cartItemID)
	if err != nil {
		return shopping.Fail[shopping.CartItem](websiteOf(website), err)
	}
	qty, err := validators.ValidateQuantity(quantity)
	if err != nil {
		return shopping.Fail[shopping.CartItem](websiteOf(website), err)
	}
	return run(ctx, s, website, OpUpdate, func(a shopping.Adapter) shopping.Result[shopping.CartItem] {
		return a.UpdateCartQuantity(ctx, id, qty)
	})
}

func (s *service) GetCartContents(ctx context.Context, website string) shopping.Result[shopping.Cart] {
	return run(ctx, s, website, OpGetCart, func(a shopping.Adapter) shopping.Result[shopping.Cart] {
		return a.GetCartContents(ctx)
	})
}

// run resolves the adapter, times the call and logs failures.
func run[T any](ctx context.Context, s *service, website, operation string, call func(shopping.Adapter) shopping.Result[T]) shopping.Result[T] {
	w := websiteOf(website)
	if s.logg != nil {
		ctx = s.logg.WithOperation(s.logg.WithWebsite(ctx, string(w)), operation)
	}

	adapter, err := s.adapters.GetAdapter(website)
	if err != nil {
		res := shopping.Fail[T](w, err)
		s.record(ctx, w, operation, 0, res.Success, res.Err())
		return res
	}

	start := time.Now()
	res := call(adapter)
	s.record(ctx, w, operation, time.Since(start), res.Success, res.Err())
	return res
}

func (s *service) record(ctx context.Context, website shopping.Website, operation string, elapsed time.Duration, ok bool, err error) {
	if s.metrics != nil {
		label := string(website)
		if _, known := shopping.ParseWebsite(label); !known {
			label = "unsupported"
		}
		s.metrics.Observe(label, operation, elapsed, ok)
	}
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds())
	if ok {
		s.logg.Info(ctx, "tool.completed")
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"error":      pkgerrors.RedactError(err),
		"error_code": string(pkgerrors.CodeOf(err)),
	}), "tool.failed")
}

// websiteOf normalizes a known website key and passes unknown input through.
func websiteOf(raw string) shopping.Website {
	if w, ok := shopping.ParseWebsite(raw); ok {
		return w
	}
	return shopping.Website(raw)
}

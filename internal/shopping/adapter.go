package shopping

import "context"

// Adapter is the uniform surface every retailer integration implements. No method
// returns an error or panics; failures come back as a failed Result.
type Adapter interface {
	Website() Website
	SearchProducts(ctx context.Context, opts SearchOptions) Result[SearchResult]
	AddToCart(ctx context.Context, productID string, quantity int, variant string) Result[AddToCartOutcome]
	RemoveFromCart(ctx context.Context, cartItemID string) Result[bool]
	UpdateCartQuantity(ctx context.Context, cartItemID string, quantity int) Result[CartItem]
	GetCartContents(ctx context.Context) Result[Cart]
}

// Guard converts a panic inside fn into a failed result. Adapters wrap each
// public operation with it.
func Guard[T any](website Website, fn func() Result[T]) (res Result[T]) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Fail[T](website, panicError(rec))
		}
	}()
	return fn()
}

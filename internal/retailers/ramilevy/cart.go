package ramilevy

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/asif-amar/shopping-mcp/internal/shopping"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

var digitsPattern = regexp.MustCompile(`^\d+$`)

// GetCartContents returns every cart line. Lines that cannot be fulfilled by the
// configured store stay in the list but are priced at zero.
func (a *Adapter) GetCartContents(ctx context.Context) shopping.Result[shopping.Cart] {
	return shopping.Guard(a.Website(), func() shopping.Result[shopping.Cart] {
		lines, err := a.fetchCart(ctx)
		if err != nil {
			return shopping.Fail[shopping.Cart](a.Website(), err)
		}
		return shopping.Ok(a.Website(), reconcileCart(lines, a.storeID))
	})
}

// AddToCart adds quantity units on top of whatever the cart already holds.
// Rami Levy has no variants; variant is ignored. Read-modify-write, see Adapter.
func (a *Adapter) AddToCart(ctx context.Context, productID string, quantity int, variant string) shopping.Result[shopping.AddToCartOutcome] {
	return shopping.Guard(a.Website(), func() shopping.Result[shopping.AddToCartOutcome] {
		productID = strings.TrimSpace(productID)
		if !digitsPattern.MatchString(productID) {
			return shopping.Fail[shopping.AddToCartOutcome](a.Website(), pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
		}
		if quantity < 1 {
			return shopping.Fail[shopping.AddToCartOutcome](a.Website(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"))
		}

		lines, err := a.fetchCart(ctx)
		if err != nil {
			return shopping.Fail[shopping.AddToCartOutcome](a.Website(), err)
		}
		desired := quantities(lines)
		desired[productID] += float64(quantity)

		updated, err := a.pushCart(ctx, desired)
		if err != nil {
			return shopping.Fail[shopping.AddToCartOutcome](a.Website(), err)
		}
		if item, ok := findItem(reconcileCart(updated, a.storeID), productID); ok {
			return shopping.Ok(a.Website(), shopping.AddToCartOutcome{Item: &item})
		}
		return shopping.Ok(a.Website(), shopping.AddToCartOutcome{
			Message: fmt.Sprintf("added %d x %s to cart", quantity, productID),
		})
	})
}

// RemoveFromCart drops a line entirely. Read-modify-write, see Adapter.
func (a *Adapter) RemoveFromCart(ctx context.Context, cartItemID string) shopping.Result[bool] {
	return shopping.Guard(a.Website(), func() shopping.Result[bool] {
		productID, err := parseCartItemID(cartItemID)
		if err != nil {
			return shopping.Fail[bool](a.Website(), err)
		}

		lines, err := a.fetchCart(ctx)
		if err != nil {
			return shopping.Fail[bool](a.Website(), err)
		}
		desired := quantities(lines)
		if _, ok := desired[productID]; !ok {
			return shopping.Fail[bool](a.Website(), notInCart(cartItemID))
		}
		delete(desired, productID)

		if _, err := a.pushCart(ctx, desired); err != nil {
			return shopping.Fail[bool](a.Website(), err)
		}
		return shopping.Ok(a.Website(), true)
	})
}

// UpdateCartQuantity sets a line to quantity units; zero removes it.
// Read-modify-write, see Adapter.
func (a *Adapter) UpdateCartQuantity(ctx context.Context, cartItemID string, quantity int) shopping.Result[shopping.CartItem] {
	return shopping.Guard(a.Website(), func() shopping.Result[shopping.CartItem] {
		productID, err := parseCartItemID(cartItemID)
		if err != nil {
			return shopping.Fail[shopping.CartItem](a.Website(), err)
		}
		if quantity < 0 {
			return shopping.Fail[shopping.CartItem](a.Website(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative"))
		}

		lines, err := a.fetchCart(ctx)
		if err != nil {
			return shopping.Fail[shopping.CartItem](a.Website(), err)
		}
		desired := quantities(lines)
		if _, ok := desired[productID]; !ok {
			return shopping.Fail[shopping.CartItem](a.Website(), notInCart(cartItemID))
		}
		previous, _ := findItem(reconcileCart(lines, a.storeID), productID)
		if quantity == 0 {
			delete(desired, productID)
		} else {
			desired[productID] = float64(quantity)
		}

		updated, err := a.pushCart(ctx, desired)
		if err != nil {
			return shopping.Fail[shopping.CartItem](a.Website(), err)
		}
		if quantity > 0 {
			if item, ok := findItem(reconcileCart(updated, a.storeID), productID); ok {
				return shopping.Ok(a.Website(), item)
			}
		}
		previous.Quantity = float64(quantity)
		previous.TotalPrice = previous.UnitPrice * float64(quantity)
		if strings.HasSuffix(previous.ID, unavailableSuffix) {
			previous.TotalPrice = 0
		}
		return shopping.Ok(a.Website(), previous)
	})
}

func (a *Adapter) fetchCart(ctx context.Context) ([]cartLine, error) {
	body, err := a.request(ctx, transport.Request{
		Method:   http.MethodGet,
		Endpoint: cartEndpoint,
		Params:   map[string]string{"store": a.storeID},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "fetch cart")
	}
	return decodeCart(body)
}

// pushCart replaces the whole upstream cart with desired. Quantities are sent
// as read, so weighed lines keep their fractional amounts. The returned lines
// are nil when upstream answers with something other than a cart.
func (a *Adapter) pushCart(ctx context.Context, desired map[string]float64) ([]cartLine, error) {
	push := cartPush{Store: a.storeID, Items: desired}
	if a.club {
		push.IsClub = 1
	}
	body, err := a.request(ctx, transport.Request{
		Method:   http.MethodPost,
		Endpoint: cartEndpoint,
		Body:     push,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "update cart")
	}
	lines, err := decodeCart(body)
	if err != nil {
		return nil, nil
	}
	return lines, nil
}

func decodeCart(body any) ([]cartLine, error) {
	var resp cartResponse
	if err := transport.Decode(body, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected cart response")
	}
	return resp.Items, nil
}

// reconcileCart prices the lines available at storeID and keeps the rest at zero.
// TotalItems counts every line; TotalPrice only the available ones.
func reconcileCart(lines []cartLine, storeID string) shopping.Cart {
	cart := shopping.Cart{Items: make([]shopping.CartItem, 0, len(lines)), Currency: currency}
	for _, line := range lines {
		qty := quantityOf(line.Quantity)
		item := shopping.CartItem{
			ID:           cartItemPrefix + line.ID,
			ProductID:    line.ID,
			ProductTitle: line.Name,
			Quantity:     qty,
			UnitPrice:    line.Price,
			ImageURL:     imageURL(line.Image),
		}

		available := availableAt(line, storeID)
		switch {
		case !available:
			item.ID += unavailableSuffix
			item.ProductTitle = shopping.DecorateTitle(line.Name, unavailableNote)
		case isWholeUnits(qty):
			quote := CalculateBestPrice(line.Price, int(qty), tiers(line.Sale))
			item.UnitPrice = quote.UnitPrice
			item.TotalPrice = quote.TotalPrice
			if quote.SaleAnnotation != "" {
				item.ProductTitle = shopping.DecorateTitle(line.Name, "- "+quote.SaleAnnotation)
			}
		default:
			// Weighed goods are priced by amount; bundle tiers do not apply.
			item.TotalPrice = line.Price * qty
		}

		item = shopping.SanitizeCartItem(item)
		if !available {
			item.TotalPrice = 0
		}
		cart.Items = append(cart.Items, item)
		cart.TotalItems += item.Quantity
		if available {
			cart.TotalPrice += item.TotalPrice
		}
	}
	return cart
}

// availableAt treats a line without store information as available.
func availableAt(line cartLine, storeID string) bool {
	if len(line.Stores) == 0 {
		return true
	}
	for _, s := range line.Stores {
		if strings.TrimSpace(s) == storeID {
			return true
		}
	}
	return false
}

func quantities(lines []cartLine) map[string]float64 {
	out := make(map[string]float64, len(lines))
	for _, line := range lines {
		if qty := quantityOf(line.Quantity); qty > 0 {
			out[line.ID] += qty
		}
	}
	return out
}

func findItem(cart shopping.Cart, productID string) (shopping.CartItem, bool) {
	for _, item := range cart.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return shopping.CartItem{}, false
}

// parseCartItemID maps "rl_<id>" or "rl_<id>_unavailable" back to the product id.
func parseCartItemID(cartItemID string) (string, error) {
	id := strings.TrimSpace(cartItemID)
	if !strings.HasPrefix(id, cartItemPrefix) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart item id must start with %q", cartItemPrefix))
	}
	id = strings.TrimSuffix(strings.TrimPrefix(id, cartItemPrefix), unavailableSuffix)
	if !digitsPattern.MatchString(id) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item id")
	}
	return id, nil
}

func notInCart(cartItemID string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("cart item %s is not in the cart", cartItemID))
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asif-amar/shopping-mcp/api/responses"
	"github.com/asif-amar/shopping-mcp/api/validators"
	"github.com/asif-amar/shopping-mcp/internal/tools"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required"`
	Variant   string  `json:"variant"`
}

type updateCartItemRequest struct {
	Quantity *float64 `json:"quantity" validate:"required"`
}

func CartGet(svc tools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := svc.GetCartContents(r.Context(), chi.URLParam(r, "website"))
		responses.WriteResult(r.Context(), logg, w, res)
	}
}

// CartAddItem handles POST /api/v1/websites/{website}/cart/items.
func CartAddItem(svc tools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res := svc.AddToCart(r.Context(), tools.AddToCartInput{
			Website:   chi.URLParam(r, "website"),
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			Variant:   payload.Variant,
		})
		responses.WriteResult(r.Context(), logg, w, res)
	}
}

// CartUpdateItem handles PATCH on a cart item. Quantity 0 removes the line.
func CartUpdateItem(svc tools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res := svc.UpdateCartQuantity(r.Context(), chi.URLParam(r, "website"), chi.URLParam(r, "itemID"), *payload.Quantity)
		responses.WriteResult(r.Context(), logg, w, res)
	}
}

func CartRemoveItem(svc tools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := svc.RemoveFromCart(r.Context(), chi.URLParam(r, "website"), chi.URLParam(r, "itemID"))
		responses.WriteResult(r.Context(), logg, w, res)
	}
}

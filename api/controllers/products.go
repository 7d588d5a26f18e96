package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/asif-amar/shopping-mcp/api/responses"
	"github.com/asif-amar/shopping-mcp/api/validators"
	"github.com/asif-amar/shopping-mcp/internal/tools"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
	"github.com/asif-amar/shopping-mcp/pkg/pagination"
)

const maxSearchPage = 100

// ProductsSearch handles GET /api/v1/websites/{website}/products.
func ProductsSearch(svc tools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, maxSearchPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minPrice, err := parseQueryFloat(r, "min_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := parseQueryFloat(r, "max_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		res := svc.SearchProducts(r.Context(), tools.SearchInput{
			Website:  chi.URLParam(r, "website"),
			Query:    q.Get("q"),
			Category: q.Get("category"),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
			Limit:    limit,
			Page:     page,
		})
		responses.WriteResult(r.Context(), logg, w, res)
	}
}

func parseQueryFloat(r *http.Request, key string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

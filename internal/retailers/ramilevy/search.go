package ramilevy

import (
	"context"
	"net/http"
	"strings"

	"github.com/asif-amar/shopping-mcp/internal/shopping"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/pagination"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

// SearchProducts queries the store catalog. Category and price filters are not
// supported upstream and are applied to the returned page.
func (a *Adapter) SearchProducts(ctx context.Context, opts shopping.SearchOptions) shopping.Result[shopping.SearchResult] {
	return shopping.Guard(a.Website(), func() shopping.Result[shopping.SearchResult] {
		query := strings.TrimSpace(opts.Query)
		if query == "" {
			return shopping.Fail[shopping.SearchResult](a.Website(), pkgerrors.New(pkgerrors.CodeValidation, "search query is required"))
		}
		page := pagination.Normalize(opts.Limit, opts.Page)

		body, err := a.request(ctx, transport.Request{
			Method:   http.MethodPost,
			Endpoint: catalogEndpoint,
			Body: map[string]any{
				"q":     query,
				"store": a.storeID,
				"aggs":  0,
				"from":  page.Offset(),
				"size":  page.Limit,
			},
		})
		if err != nil {
			return shopping.Fail[shopping.SearchResult](a.Website(), pkgerrors.Wrap(pkgerrors.CodeOf(err), err, "search products"))
		}

		var resp catalogResponse
		if err := transport.Decode(body, &resp); err != nil {
			return shopping.Fail[shopping.SearchResult](a.Website(), pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected search response"))
		}

		products := make([]shopping.Product, 0, len(resp.Data))
		filtered := false
		for _, item := range resp.Data {
			product := shopping.SanitizeProduct(a.toProduct(item))
			if !opts.Matches(product) {
				filtered = true
				continue
			}
			products = append(products, product)
		}
		products = pagination.Truncate(products, page.Limit)

		total := resp.Total
		if filtered || total < len(products) {
			total = len(products)
		}
		return shopping.Ok(a.Website(), shopping.SearchResult{
			Products:   products,
			TotalCount: total,
			Page:       page.Page,
			HasMore:    page.HasMore(resp.Total),
		})
	})
}

func (a *Adapter) toProduct(item catalogItem) shopping.Product {
	image := item.Images.Small
	if image == "" {
		image = item.Images.Original
	}
	available := item.InStock == nil || *item.InStock
	description := item.Description
	if description == "" {
		if quote := CalculateBestPrice(item.Price.Price, 1, tiers(item.Sale)); quote.SaleAnnotation != "" {
			description = quote.SaleAnnotation
		}
	}
	return shopping.Product{
		ID:           item.ID,
		Title:        item.Name,
		Description:  description,
		Price:        item.Price.Price,
		Currency:     currency,
		ImageURL:     imageURL(image),
		Availability: available,
		Category:     item.Department.Name,
		Brand:        item.Brand,
		URL:          productURL(a.baseURL, item.ID),
	}
}

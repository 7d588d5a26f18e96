package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asif-amar/shopping-mcp/api/responses"
	"github.com/asif-amar/shopping-mcp/internal/retailers"
	"github.com/asif-amar/shopping-mcp/internal/shopping"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
)

// WebsiteCatalog is the read side of the adapter factory.
type WebsiteCatalog interface {
	SupportedWebsites() []shopping.Website
	ValidateWebsiteConfig(website string) (retailers.ConfigReport, error)
}

// WebsitesList returns every supported website with its credential status.
func WebsitesList(catalog WebsiteCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		websites := catalog.SupportedWebsites()
		reports := make([]retailers.ConfigReport, 0, len(websites))
		for _, website := range websites {
			report, err := catalog.ValidateWebsiteConfig(string(website))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			reports = append(reports, report)
		}
		responses.WriteSuccess(w, reports)
	}
}

func WebsiteConfig(catalog WebsiteCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := catalog.ValidateWebsiteConfig(chi.URLParam(r, "website"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

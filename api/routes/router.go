package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asif-amar/shopping-mcp/api/controllers"
	"github.com/asif-amar/shopping-mcp/api/middleware"
	"github.com/asif-amar/shopping-mcp/internal/tools"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
	pkgredis "github.com/asif-amar/shopping-mcp/pkg/redis"
)

// Dependencies groups what the router wires into handlers. Redis and Metrics
// are optional.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Tools    tools.Service
	Websites controllers.WebsiteCatalog
	Redis    *pkgredis.Client
	Metrics  prometheus.Gatherer
	Origins  []string
}

func NewRouter(deps Dependencies) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.ClientIP(cfg.App.TrustedProxies...),
		middleware.Logging(logg),
		middleware.CORS(deps.Origins...),
	)

	var (
		pinger      pkgredis.Pinger
		limiter     middleware.RateLimiter
		idempotency pkgredis.IdempotencyStore
	)
	if deps.Redis != nil {
		pinger, limiter, idempotency = deps.Redis, deps.Redis, deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pinger))
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{Timeout: 5 * time.Second}))
	}

	policy := middleware.RateLimitPolicy{
		Name:   "api",
		Window: cfg.RateLimit.Window,
		Limit:  cfg.RateLimit.Limit,
	}

	r.Route("/api/v1/websites", func(r chi.Router) {
		r.Use(middleware.RateLimit(policy, limiter, logg))

		r.Get("/", controllers.WebsitesList(deps.Websites, logg))
		r.Route("/{website}", func(r chi.Router) {
			r.Get("/config", controllers.WebsiteConfig(deps.Websites, logg))
			r.Get("/products", controllers.ProductsSearch(deps.Tools, logg))
			r.Get("/cart", controllers.CartGet(deps.Tools, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Idempotency(idempotency, logg))
				r.Post("/cart/items", controllers.CartAddItem(deps.Tools, logg))
				r.Patch("/cart/items/{itemID}", controllers.CartUpdateItem(deps.Tools, logg))
				r.Delete("/cart/items/{itemID}", controllers.CartRemoveItem(deps.Tools, logg))
			})
		})
	})

	return r
}

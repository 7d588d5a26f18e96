package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/asif-amar/shopping-mcp/api/routes"
	"github.com/asif-amar/shopping-mcp/internal/retailers"
	"github.com/asif-amar/shopping-mcp/internal/tools"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
	"github.com/asif-amar/shopping-mcp/pkg/metrics"
	"github.com/asif-amar/shopping-mcp/pkg/redis"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, rate limiting and idempotency disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	transportOpts := []transport.Option{
		transport.WithTimeout(cfg.Transport.Timeout),
		transport.WithMaxBodyBytes(cfg.Transport.MaxBodyBytes),
		transport.WithHeaders(map[string]string{"User-Agent": cfg.Transport.UserAgent}),
		transport.AllowPrivateNetworks(cfg.Transport.AllowPrivateNetworks),
	}
	factory := retailers.NewFactory(cfg.Retailers, retailers.WithTransportOptions(transportOpts...))
	logRetailerConfig(logg, factory)

	toolService, err := tools.NewService(factory, metrics.NewAdapterMetrics(registry), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tool service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:   cfg,
			Logger:   logg,
			Tools:    toolService,
			Websites: factory,
			Redis:    redisClient,
			Metrics:  registry,
			Origins:  cfg.App.CORSOrigins,
		}),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
		factory.ClearCache()
	}
}

// logRetailerConfig warns about retailers that will fail until credentials are set.
func logRetailerConfig(logg *logger.Logger, factory *retailers.Factory) {
	for _, website := range factory.SupportedWebsites() {
		report, err := factory.ValidateWebsiteConfig(string(website))
		if err != nil || report.Valid {
			continue
		}
		ctx := logg.WithWebsite(context.Background(), website.String())
		ctx = logg.WithField(ctx, "missing", report.Missing)
		logg.Warn(ctx, "retailer credentials incomplete")
	}
}

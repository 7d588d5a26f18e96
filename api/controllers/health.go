package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/asif-amar/shopping-mcp/api/responses"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/logger"
	pkgredis "github.com/asif-amar/shopping-mcp/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopping-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings redis when it is configured. A nil pinger reports ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopping-Env", cfg.App.Env)

		checks := map[string]string{}
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := redisClient.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready").
					WithDetails(map[string]string{"redis": "down"}))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

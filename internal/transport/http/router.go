// Package httptransport assembles the public HTTP surface: the middleware
// chain, the module routes under the integration prefix, and the
// operational endpoints outside it.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"faceid/internal/platform/metrics"
	"faceid/pkg/platform/httputil"
	"faceid/pkg/platform/middleware/metadata"
	"faceid/pkg/platform/middleware/ratelimit"
	"faceid/pkg/platform/middleware/requestid"
	"faceid/pkg/platform/middleware/requesttime"
)

// RouteRegistrar is implemented by every module handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// RouterConfig collects what NewRouter mounts.
type RouterConfig struct {
	Prefix  string
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Limiter *ratelimit.Limiter
	Modules []RouteRegistrar
	Health  map[string]HealthCheck
	Timeout time.Duration
}

// NewRouter wires the middleware chain and mounts module routes under Prefix.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(chimw.Recoverer)
	r.Use(cfg.Metrics.Middleware)
	r.MethodNotAllowed(httputil.MethodNotAllowed)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	})

	r.Get("/health", healthHandler(cfg.Health, cfg.Logger))
	r.Handle("/metrics", metrics.Handler())

	r.Route(cfg.Prefix, func(api chi.Router) {
		if cfg.Limiter != nil {
			api.Use(cfg.Limiter.Middleware)
		}
		if cfg.Timeout > 0 {
			api.Use(chimw.Timeout(cfg.Timeout))
		}
		api.MethodNotAllowed(httputil.MethodNotAllowed)
		for _, m := range cfg.Modules {
			m.Register(api)
		}
	})
	return r
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = "down"
				if logger != nil {
					logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				}
				continue
			}
			results[name] = "ok"
		}
		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{"status": overall, "checks": results})
	}
}

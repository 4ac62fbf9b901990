package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"faceid/pkg/platform/httputil"
	"faceid/pkg/platform/middleware/ratelimit"
	"faceid/pkg/platform/middleware/requestid"
)

type pingModule struct{}

func (pingModule) Register(r chi.Router) {
	r.Post("/ping", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"pong": "ok"})
	})
}

func newTestRouter(cfg RouterConfig) http.Handler {
	if cfg.Prefix == "" {
		cfg.Prefix = "/integrations/face-extractor-svc"
	}
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.Modules = []RouteRegistrar{pingModule{}}
	return NewRouter(cfg)
}

func TestRouter(t *testing.T) {
	t.Run("module routes live under the prefix", func(t *testing.T) {
		r := newTestRouter(RouterConfig{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/integrations/face-extractor-svc/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if w.Header().Get(requestid.Header) == "" {
			t.Fatalf("expected a request id header")
		}
	})

	t.Run("wrong verb is invalid_method", func(t *testing.T) {
		r := newTestRouter(RouterConfig{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/integrations/face-extractor-svc/ping", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "invalid_method" {
			t.Fatalf("expected invalid_method, got %q", body["error"])
		}
	})

	t.Run("rate limit applies to module routes only", func(t *testing.T) {
		r := newTestRouter(RouterConfig{Limiter: ratelimit.New(0.0001, 1, nil)})
		for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/integrations/face-extractor-svc/ping", nil))
			if w.Code != want {
				t.Fatalf("request %d: expected status %d, got %d", i, want, w.Code)
			}
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected health to bypass the limiter, got %d", w.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	t.Run("reports failing dependency", func(t *testing.T) {
		r := newTestRouter(RouterConfig{Health: map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("down") },
		}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d", w.Code)
		}
		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Checks["postgres"] != "ok" || body.Checks["redis"] != "down" {
			t.Fatalf("unexpected checks: %v", body.Checks)
		}
	})
}

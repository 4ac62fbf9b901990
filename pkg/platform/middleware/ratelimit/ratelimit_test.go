package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"faceid/pkg/platform/middleware/metadata"
)

func TestLimiter_PerClientBudget(t *testing.T) {
	l := New(1, 2, nil)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// other clients have their own bucket
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLimiter_DisabledWhenRateIsZero(t *testing.T) {
	l := New(0, 0, nil)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	var nilLimiter *Limiter
	assert.True(t, nilLimiter.Allow("10.0.0.1"))
}

func TestLimiter_Middleware(t *testing.T) {
	l := New(1, 1, nil)
	h := metadata.ClientMetadata(l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/contest/winner", nil)
	req.Header.Set("X-Forwarded-For", "192.0.2.7, 10.0.0.1")

	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate_limited")
}

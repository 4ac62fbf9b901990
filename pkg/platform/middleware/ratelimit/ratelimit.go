// Package ratelimit throttles requests per client IP with a token bucket.
package ratelimit

import (
	"log/slog"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	dErrors "faceid/pkg/domain-errors"
	"faceid/pkg/platform/httputil"
	"faceid/pkg/requestcontext"
)

// idleTTL evicts limiters of clients that went quiet.
const idleTTL = 10 * time.Minute

// Limiter hands out one token bucket per client IP.
type Limiter struct {
	rps     rate.Limit
	burst   int
	buckets *gocache.Cache
	logger  *slog.Logger
}

// New creates a limiter; rps <= 0 disables limiting.
func New(rps float64, burst int, logger *slog.Logger) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: gocache.New(idleTTL, time.Minute),
		logger:  logger,
	}
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	if v, ok := l.buckets.Get(key); ok {
		l.buckets.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	fresh := rate.NewLimiter(l.rps, l.burst)
	if err := l.buckets.Add(key, fresh, gocache.DefaultExpiration); err != nil {
		// lost the race; use the winner's bucket
		if v, ok := l.buckets.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return fresh
}

// Allow reports whether the client may proceed now.
func (l *Limiter) Allow(clientIP string) bool {
	if l == nil || l.rps <= 0 {
		return true
	}
	return l.bucket(clientIP).Allow()
}

// Middleware rejects requests over budget with rate_limited.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		if !l.Allow(ip) {
			if l.logger != nil {
				l.logger.WarnContext(ctx, "request rate limited",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", ip,
				)
			}
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

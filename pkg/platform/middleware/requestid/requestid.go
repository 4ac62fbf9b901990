// Package requestid assigns a correlation id to every request.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"faceid/pkg/requestcontext"
)

// Header is echoed back and accepted from upstream proxies.
const Header = "X-Request-ID"

// Middleware reuses an inbound X-Request-ID or generates a new one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/idmap/internal/engine/identity"
)

// requestIDHeader carries the generated request ID back to the client.
const requestIDHeader = "X-Request-Id"

// ScopeMiddleware opens a fresh identity scope for every request and
// guarantees its release on every exit path, including handler panics and
// client cancellation. A request never sees entities cached by another
// request.
func ScopeMiddleware(registry *identity.Registry, log ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			start := time.Now()

			ctx, scope := identity.WithScope(r.Context(), registry)
			defer func() {
				stats := scope.Stats().String()
				scope.Release()
				log.Info(fmt.Sprintf("%s %s %s (%s, request_id=%s)",
					r.Method, r.URL.Path, stats, time.Since(start).Round(time.Microsecond), requestID))
			}()

			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

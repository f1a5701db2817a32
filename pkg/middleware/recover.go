package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"makers/pkg/logger"
	"makers/pkg/response"
)

// Recovery catches panics in downstream handlers, logs the stack trace, and
// returns a 500. Mount it inside reqid/metrics but outside everything else
// so it wraps all application middleware and handlers.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.ServerError(w, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

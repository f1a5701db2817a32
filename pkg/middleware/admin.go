package middleware

import (
	"context"
	"net/http"

	"makers/pkg/logger"
	"makers/pkg/response"
)

// RoleLookup resolves a caller's stored role. found is false when no user
// document exists for the email.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (role string, found bool, err error)
}

// RequireAdmin gates a route on the stored "admin" role of the verified
// caller. It must run after Auth — the email comes from the token claims,
// but the role is always read from storage. An unknown caller fails closed
// with a 403.
func RequireAdmin(lookup RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := EmailFromCtx(r.Context())
			if email == "" {
				response.Forbidden(w, "forbidden access")
				return
			}

			role, found, err := lookup.RoleByEmail(r.Context(), email)
			if err != nil {
				logger.WithCtx(r.Context()).Error("admin gate: role lookup", "email", email, "error", err)
				response.ServerError(w, "role lookup failed")
				return
			}
			if !found || role != "admin" {
				response.Forbidden(w, "forbidden access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

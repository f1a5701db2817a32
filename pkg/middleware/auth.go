package middleware

import (
	"context"
	"net/http"
	"strings"

	"makers/pkg/auth"
	"makers/pkg/response"
)

type claimsKey struct{}

// Auth verifies the bearer token on protected routes. A missing
// Authorization header is a 401; a non-Bearer scheme or a token that fails
// signature or expiry checks is a 403. On success the decoded claims are
// stored in the request context for downstream handlers.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			response.Unauthorized(w, "unauthorized access")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Forbidden(w, "forbidden access")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Forbidden(w, "forbidden access")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the verified claims stored by Auth.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

// EmailFromCtx returns the verified caller email, or "" when the request
// did not pass through Auth.
func EmailFromCtx(ctx context.Context) string {
	if claims, ok := ClaimsFromCtx(ctx); ok {
		return claims.Email
	}
	return ""
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vidhyasarthi/vidhyasarthi-api/app/shared"
	"github.com/vidhyasarthi/vidhyasarthi-api/pkg/jwt"
)

type contextKey string

const claimsContextKey contextKey = "authClaims"

// Auth returns a middleware that rejects requests without a valid bearer
// token and stores the decoded claims in the request context.
func Auth(tokens jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				shared.RespondError(w, http.StatusUnauthorized, "Token is required")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				shared.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Auth, or nil when the
// request did not pass through it.
func ClaimsFromContext(ctx context.Context) *jwt.UserClaims {
	claims, _ := ctx.Value(claimsContextKey).(*jwt.UserClaims)
	return claims
}

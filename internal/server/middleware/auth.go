// Package middleware provides the HTTP middleware chain: request logging,
// CORS, bearer-token authentication, tier gating, and tiered rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/injlabs/marketlens/internal/identity"
)

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (identity.Claims, error)
}

type ctxKey int

const claimsKey ctxKey = iota

// ClaimsFrom returns the verified claims stored on the request context by
// the Auth middleware, if any.
func ClaimsFrom(ctx context.Context) (identity.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(identity.Claims)
	return claims, ok
}

// Auth returns middleware that validates a Bearer token in the Authorization
// header and attaches the verified claims to the request context. Requests
// without a valid token are rejected with 401.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				writeUnauthorized(w, "missing authentication token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				writeUnauthorized(w, "invalid authentication token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearer looks for a token in the Authorization header (Bearer
// scheme).
func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// writeUnauthorized sends a 401 response with a JSON error body.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

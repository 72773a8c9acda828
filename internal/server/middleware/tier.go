package middleware

import (
	"net/http"

	"github.com/injlabs/marketlens/internal/domain"
	"github.com/injlabs/marketlens/internal/identity"
)

// RequireTier returns middleware that rejects requests whose verified tier
// does not satisfy the required tier. It must run after Auth so the claims
// are present on the context.
func RequireTier(required domain.Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				writeUnauthorized(w, "missing authentication token")
				return
			}

			if !identity.MeetsRequirement(claims.Tier, required) {
				msg := "NFT ownership required for this endpoint"
				if required == domain.TierPremium {
					msg = "Premium NFT required for this endpoint"
				}
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"` + msg + `"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/service_interfaces"
)

type contextKey string

const claimsKey contextKey = "tokenClaims"

type TokenValidator interface {
	ValidateToken(token string) (service_interfaces.TokenClaims, error)
}

// BearerToken requires a valid session token issued by PIN
// verification. The claims are attached to the request context.
func BearerToken(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.Info("bearer token middleware unauthorized request", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"reason": err.Error(),
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// ClaimsFromContext returns the claims attached by BearerToken.
func ClaimsFromContext(ctx context.Context) (service_interfaces.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(service_interfaces.TokenClaims)
	return claims, ok
}

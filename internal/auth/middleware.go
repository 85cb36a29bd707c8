package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const shopKey contextKey = "auth_shop"

// ShopFromContext extracts the authenticated shop domain from request context.
func ShopFromContext(ctx context.Context) string {
	shop, _ := ctx.Value(shopKey).(string)
	return shop
}

// AuthenticateMerchant returns middleware that validates the merchant
// session token and injects the shop domain into the request context.
func AuthenticateMerchant(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"code":"UNAUTHORIZED","message":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}

			claims, err := jwtMgr.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, `{"code":"UNAUTHORIZED","message":"invalid session token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), shopKey, claims.Shop)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

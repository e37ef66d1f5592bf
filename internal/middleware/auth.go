package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type contextKey string

const tokenContextKey contextKey = "bearerToken"

// WithToken stores the caller's bearer token on the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext returns the bearer token placed by RequireToken.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// RequireToken extracts the Authorization bearer token and passes it through
// to the upstream API. The token is opaque and externally managed — it is
// never verified here. The only inspection is an unverified exp-claim peek so
// a visibly expired JWT fails fast instead of burning an upstream round trip;
// tokens that are not JWTs pass through untouched.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		if token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{}); err == nil {
			if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
				http.Error(w, "token expired", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), tokenStr)))
	})
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/clearsight-ai/reportforge/internal/api"
)

type contextKey string

// BearerAuth requires a static bearer token on every request. An empty
// configured token disables authentication.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				api.Error(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			presented := strings.TrimPrefix(authHeader, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				api.Error(w, http.StatusUnauthorized, "invalid api token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

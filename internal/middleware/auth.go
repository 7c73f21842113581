package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/YeahitsDivyansh/mystry-message-api/shared/auth"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/httputil"
)

type sessionContextKey struct{}

// RequireSession validates the bearer token on every request and stashes the
// decoded session claims in the request context. Requests without a valid
// session are rejected before any store access.
func RequireSession(jwtAuth auth.JWTAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := jwtAuth.ValidateSessionToken(parts[1])
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session claims stored by RequireSession.
func SessionFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionContextKey{}).(*auth.SessionClaims)
	return claims, ok
}

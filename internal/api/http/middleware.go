package http

import (
	"context"
	"net/http"
	"strings"

	"classbook-backend/internal/security"
)

type contextKey string

const memberIDKey contextKey = "member_id"

// AuthMiddleware validates the bearer token and stashes the member ID in the
// request context.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), memberIDKey, claims.MemberID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// memberIDFromContext returns the authenticated member ID set by
// AuthMiddleware.
func memberIDFromContext(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(memberIDKey).(int32)
	return id, ok
}

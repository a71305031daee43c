// Package middleware provides the HTTP middleware chain: request logging,
// Prometheus metrics and the authenticated-user request context.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lmercier/giftpool/internal/auth"
)

type contextKey string

// userIDKey carries the authenticated user ID through the request context.
const userIDKey contextKey = "user_id"

// GetUserID returns the authenticated user ID from the request context,
// empty if the request is unauthenticated.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID returns a context carrying the authenticated user ID.
// Exported for tests that bypass the HTTP middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Authenticate validates the Bearer token on every request and stores the
// user ID in the context. Requests without a valid token are rejected by
// the onError callback.
func Authenticate(jwtManager *auth.JWTManager, onError func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				onError(w, auth.ErrMissingToken)
				return
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				onError(w, err)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

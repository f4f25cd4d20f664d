package middleware

import (
	"context"
	"net/http"
	"strings"

	"vendorflow-backend/internal/auth"
	"vendorflow-backend/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// Authenticate resolves the request's bearer token into an
// AuthenticatedUser and stores it in the context. It never rejects:
// missing or invalid credentials leave a nil user for the guard to act
// on, and a profile lookup that fails or times out yields a degraded
// (profile-less) user rather than an error.
func Authenticate(store *auth.Store, resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := store.CurrentSession(bearerToken(r))
			user := resolver.ResolveSession(session)

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header, or falls
// back to the token query parameter (WebSocket clients cannot set
// headers).
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// GetUserFromContext extracts the authenticated user from the request
// context. The user is nil for unauthenticated requests.
func GetUserFromContext(r *http.Request) (*models.AuthenticatedUser, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.AuthenticatedUser)
	return user, ok && user != nil
}

package middleware

import (
	"net/http"

	"vendorflow-backend/internal/auth"
	"vendorflow-backend/internal/models"
)

// Decision is the route guard's verdict for a protected route.
type Decision int

const (
	// DecisionLoading: auth state is still initializing; show the loading
	// indicator, do not redirect.
	DecisionLoading Decision = iota
	// DecisionRedirectLogin: unauthenticated, or authenticated without a
	// resolved profile (the guard refuses to guess a role).
	DecisionRedirectLogin
	// DecisionRedirectHome: authenticated with the wrong role; send the
	// user to their own home.
	DecisionRedirectHome
	// DecisionRender: authenticated with the required role.
	DecisionRender
)

// GuardInput is everything the decision depends on. Decide is a pure
// function of it: same input, same verdict.
type GuardInput struct {
	Loading      bool
	User         *models.AuthenticatedUser
	RequiredRole string
}

// Decide evaluates the guard's decision table. The order is load-bearing:
// loading must be checked before presence (a transient nil user during
// initialization must wait, not bounce to login), and profile presence
// before role equality (a nil profile has no role to compare).
func Decide(in GuardInput) Decision {
	if in.Loading {
		return DecisionLoading
	}
	if in.User == nil {
		return DecisionRedirectLogin
	}
	if in.User.Profile == nil {
		return DecisionRedirectLogin
	}
	if in.User.Profile.Role != in.RequiredRole {
		return DecisionRedirectHome
	}
	return DecisionRender
}

// RoleHome returns the home path for a role, or "/login" for an unknown
// one.
func RoleHome(role string) string {
	switch role {
	case models.RoleSuperVendor:
		return "/super-vendor"
	case models.RoleSubVendor:
		return "/dashboard"
	default:
		return "/login"
	}
}

// Guard gates a route subtree behind a required role. Must run after
// Authenticate.
func Guard(state *auth.State, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := GetUserFromContext(r)

			decision := Decide(GuardInput{
				Loading:      state.Current().Loading,
				User:         user,
				RequiredRole: requiredRole,
			})

			switch decision {
			case DecisionLoading:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Initializing", http.StatusServiceUnavailable)
			case DecisionRedirectLogin:
				http.Redirect(w, r, "/login", http.StatusFound)
			case DecisionRedirectHome:
				http.Redirect(w, r, RoleHome(user.Role()), http.StatusFound)
			case DecisionRender:
				next.ServeHTTP(w, r)
			}
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorflow-backend/internal/auth"
	"vendorflow-backend/internal/models"
)

func userWithRole(role string) *models.AuthenticatedUser {
	return &models.AuthenticatedUser{
		Identity: models.Identity{UserID: "u1", Email: "alice@example.com"},
		Profile:  &models.Profile{ID: "u1", Role: role},
	}
}

func degradedUser() *models.AuthenticatedUser {
	return &models.AuthenticatedUser{
		Identity: models.Identity{UserID: "u1", Email: "alice@example.com"},
	}
}

func TestDecide_Table(t *testing.T) {
	cases := []struct {
		name string
		in   GuardInput
		want Decision
	}{
		{
			name: "loading waits even with nil user",
			in:   GuardInput{Loading: true, User: nil, RequiredRole: models.RoleSuperVendor},
			want: DecisionLoading,
		},
		{
			name: "loading waits even with matching role",
			in:   GuardInput{Loading: true, User: userWithRole(models.RoleSuperVendor), RequiredRole: models.RoleSuperVendor},
			want: DecisionLoading,
		},
		{
			name: "unauthenticated redirects to login",
			in:   GuardInput{User: nil, RequiredRole: models.RoleSuperVendor},
			want: DecisionRedirectLogin,
		},
		{
			name: "degraded user redirects to login",
			in:   GuardInput{User: degradedUser(), RequiredRole: models.RoleSuperVendor},
			want: DecisionRedirectLogin,
		},
		{
			name: "wrong role redirects home",
			in:   GuardInput{User: userWithRole(models.RoleSubVendor), RequiredRole: models.RoleSuperVendor},
			want: DecisionRedirectHome,
		},
		{
			name: "matching role renders",
			in:   GuardInput{User: userWithRole(models.RoleSubVendor), RequiredRole: models.RoleSubVendor},
			want: DecisionRender,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.in))

			// Pure function: re-evaluating the same input never flips the
			// verdict.
			assert.Equal(t, tc.want, Decide(tc.in))
		})
	}
}

func TestRoleHome(t *testing.T) {
	assert.Equal(t, "/super-vendor", RoleHome(models.RoleSuperVendor))
	assert.Equal(t, "/dashboard", RoleHome(models.RoleSubVendor))
	assert.Equal(t, "/login", RoleHome(""))
	assert.Equal(t, "/login", RoleHome("admin"))
}

func newGuardState(t *testing.T, loading bool) *auth.State {
	t.Helper()
	r := auth.NewResolver(nil, time.Second, nil)
	if !loading {
		r.Resolve(nil)
	}
	return r.State()
}

func guardRequest(t *testing.T, state *auth.State, requiredRole string, user *models.AuthenticatedUser) *httptest.ResponseRecorder {
	t.Helper()

	handler := Guard(state, requiredRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGuard_LoadingReturns503(t *testing.T) {
	state := newGuardState(t, true)

	rec := guardRequest(t, state, models.RoleSuperVendor, nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestGuard_UnauthenticatedRedirectsToLogin(t *testing.T) {
	state := newGuardState(t, false)

	rec := guardRequest(t, state, models.RoleSuperVendor, nil)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGuard_DegradedUserRedirectsToLogin(t *testing.T) {
	state := newGuardState(t, false)

	rec := guardRequest(t, state, models.RoleSuperVendor, degradedUser())

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGuard_WrongRoleRedirectsToOwnHome(t *testing.T) {
	state := newGuardState(t, false)

	// A sub vendor hitting the super-vendor subtree lands on /dashboard,
	// and vice versa.
	rec := guardRequest(t, state, models.RoleSuperVendor, userWithRole(models.RoleSubVendor))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = guardRequest(t, state, models.RoleSubVendor, userWithRole(models.RoleSuperVendor))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/super-vendor", rec.Header().Get("Location"))
}

func TestGuard_MatchingRoleRenders(t *testing.T) {
	state := newGuardState(t, false)

	rec := guardRequest(t, state, models.RoleSubVendor, userWithRole(models.RoleSubVendor))

	assert.Equal(t, http.StatusOK, rec.Code)
}

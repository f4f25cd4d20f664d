package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"vendorflow-backend/internal/middleware"
	"vendorflow-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func superVendor() *models.AuthenticatedUser {
	return &models.AuthenticatedUser{
		Identity: models.Identity{UserID: "super1", Email: "admin@vendorflow.app"},
		Profile:  &models.Profile{ID: "super1", Name: "Admin", Role: models.RoleSuperVendor},
	}
}

func subVendor() *models.AuthenticatedUser {
	return &models.AuthenticatedUser{
		Identity: models.Identity{UserID: "sub1", Email: "vendor@example.com"},
		Profile:  &models.Profile{ID: "sub1", Name: "Vendor One", Role: models.RoleSubVendor},
	}
}

// newRequest builds a request carrying the authenticated user and, when id
// is non-empty, a chi id URL param, the way the router would.
func newRequest(t *testing.T, method, target string, user *models.AuthenticatedUser, body interface{}, id string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, user)

	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorflow-backend/internal/models"
)

func TestListVendors_ReturnsSubVendorsOnly(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now().Unix()
	mock.ExpectQuery("FROM profiles\\s+WHERE role = \\$1").
		WithArgs(models.RoleSubVendor).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "created_at", "updated_at"}).
			AddRow("sub1", "vendor@example.com", "Vendor One", models.RoleSubVendor, now, now).
			AddRow("sub2", "other@example.com", "Vendor Two", models.RoleSubVendor, now, now))

	rec := httptest.NewRecorder()
	ListVendors(db).ServeHTTP(rec, newRequest(t, http.MethodGet, "/super-vendor/vendors", superVendor(), nil, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	vendors := decodeBody[[]models.ProfileResponse](t, rec)
	require.Len(t, vendors, 2)
	assert.Equal(t, models.RoleSubVendor, vendors[0].Role)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

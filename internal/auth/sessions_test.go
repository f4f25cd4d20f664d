package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vendorflow-backend/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewStore(db, "test-secret", time.Hour), mock
}

func profileColumns() []string {
	return []string{"id", "email", "password", "name", "role", "created_at", "updated_at"}
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestSignInWithPassword_Success(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().Unix()
	mock.ExpectQuery("SELECT id, email, password, name, role, created_at, updated_at FROM profiles WHERE email = \\$1").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(profileColumns()).
			AddRow("u1", "alice@example.com", hashPassword(t, "hunter2"), "Alice", models.RoleSuperVendor, now, now))

	var got models.SessionEvent
	store.OnSessionChange(func(ev models.SessionEvent) { got = ev })

	session, profile, err := store.SignInWithPassword("alice@example.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "u1", session.Identity.UserID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, models.RoleSuperVendor, profile.Role)

	assert.Equal(t, models.SessionSignedIn, got.Type)
	require.NotNil(t, got.Session)
	assert.Equal(t, "u1", got.Session.Identity.UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInWithPassword_WrongPassword(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().Unix()
	mock.ExpectQuery("SELECT id, email, password, name, role, created_at, updated_at FROM profiles WHERE email = \\$1").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(profileColumns()).
			AddRow("u1", "alice@example.com", hashPassword(t, "hunter2"), "Alice", models.RoleSuperVendor, now, now))

	emitted := false
	store.OnSessionChange(func(models.SessionEvent) { emitted = true })

	_, _, err := store.SignInWithPassword("alice@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.False(t, emitted, "failed sign-in must not emit an event")
}

func TestSignInWithPassword_UnknownEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, email, password, name, role, created_at, updated_at FROM profiles WHERE email = \\$1").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, _, err := store.SignInWithPassword("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestSignUp_Success(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM profiles WHERE email = \\$1").
		WithArgs("bob@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	profile, err := store.SignUp("bob@example.com", "hunter2", "Bob", models.RoleSubVendor)
	require.NoError(t, err)

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "bob@example.com", profile.Email)
	assert.Equal(t, models.RoleSubVendor, profile.Role)
	assert.NotEqual(t, "hunter2", profile.Password, "password must be stored hashed")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUp_EmailTaken(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM profiles WHERE email = \\$1").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
	mock.ExpectRollback()

	_, err := store.SignUp("alice@example.com", "hunter2", "Alice", models.RoleSuperVendor)
	assert.ErrorIs(t, err, models.ErrEmailTaken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUp_RejectsUnknownRole(t *testing.T) {
	store, _ := newMockStore(t)

	_, err := store.SignUp("bob@example.com", "hunter2", "Bob", "admin")
	assert.Error(t, err)
}

func TestCurrentSession_RoundTrip(t *testing.T) {
	store, _ := newMockStore(t)

	token, err := store.issueToken(&models.Profile{ID: "u1", Email: "alice@example.com", Role: models.RoleSuperVendor})
	require.NoError(t, err)

	session := store.CurrentSession(token)
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.Identity.UserID)
	assert.Equal(t, "alice@example.com", session.Identity.Email)
	assert.Equal(t, token, session.Token)
}

func TestCurrentSession_RejectsInvalidTokens(t *testing.T) {
	store, _ := newMockStore(t)
	other := NewStore(nil, "different-secret", time.Hour)

	foreign, err := other.issueToken(&models.Profile{ID: "u1", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Nil(t, store.CurrentSession(""))
	assert.Nil(t, store.CurrentSession("not-a-token"))
	assert.Nil(t, store.CurrentSession(foreign), "token signed with another secret must be rejected")
}

func TestCurrentSession_RejectsExpiredToken(t *testing.T) {
	store, _ := newMockStore(t)
	store.tokenTTL = -time.Hour

	token, err := store.issueToken(&models.Profile{ID: "u1", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Nil(t, store.CurrentSession(token))
}

func TestGetProfileByID_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, email, password, name, role, created_at, updated_at FROM profiles WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetProfileByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetProfileByID_Found(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().Unix()
	mock.ExpectQuery("SELECT id, email, password, name, role, created_at, updated_at FROM profiles WHERE id = \\$1").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(profileColumns()).
			AddRow("u1", "alice@example.com", "hash", "Alice", models.RoleSubVendor, now, now))

	profile, err := store.GetProfileByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, models.RoleSubVendor, profile.Role)
}

func TestOnSessionChange_Unsubscribe(t *testing.T) {
	store, _ := newMockStore(t)

	calls := 0
	listener := store.OnSessionChange(func(models.SessionEvent) { calls++ })

	store.SignOut(nil)
	assert.Equal(t, 1, calls)

	listener.Unsubscribe()
	listener.Unsubscribe() // idempotent

	store.SignOut(nil)
	assert.Equal(t, 1, calls, "unsubscribed listener must not receive events")
}

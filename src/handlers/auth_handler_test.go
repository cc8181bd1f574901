package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/foxxdash/backend/src/security"
)

const testJWTSecret = "test-secret-key-at-least-32-bytes-long!!"

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	setTestConfig(t)

	authService := security.NewAuthService(testJWTSecret)
	hash, err := authService.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	return NewAuthHandler(authService, "admin", hash)
}

func loginWith(t *testing.T, handler *AuthHandler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, req)
	return rec
}

func TestLoginIssuesValidToken(t *testing.T) {
	handler := newTestAuthHandler(t)

	rec := loginWith(t, handler, "admin", "hunter2hunter2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	subject, err := security.NewAuthService(testJWTSecret).ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	handler := newTestAuthHandler(t)

	assert.Equal(t, http.StatusUnauthorized, loginWith(t, handler, "admin", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, loginWith(t, handler, "root", "hunter2hunter2").Code)
}

func TestLoginDisabledWithoutPasswordHash(t *testing.T) {
	setTestConfig(t)
	handler := NewAuthHandler(security.NewAuthService(testJWTSecret), "admin", "")

	rec := loginWith(t, handler, "admin", "anything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthMiddlewareBlocksWithoutToken(t *testing.T) {
	handler := newTestAuthHandler(t)

	called := false
	guarded := handler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	guarded(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	handler := newTestAuthHandler(t)

	rec := loginWith(t, handler, "admin", "hunter2hunter2")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	called := false
	guarded := handler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	guarded(rec, req)

	assert.True(t, called)
}

func TestAuthMiddlewarePassthroughWhenDisabled(t *testing.T) {
	setTestConfig(t)
	handler := NewAuthHandler(security.NewAuthService(testJWTSecret), "admin", "")

	called := false
	guarded := handler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	guarded(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

	assert.True(t, called)
}

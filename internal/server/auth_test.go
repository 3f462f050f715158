package server_test

import (
	"net/http"
	"testing"
	"time"

	"selam/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuesSignedToken(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    env.config.AdminEmail,
		"password": env.config.AdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, env.config.AdminEmail, body["email"])

	raw, ok := body["token"].(string)
	require.True(t, ok)

	token, err := server.ParseToken(env.config.AuthTokenSecret, raw)
	require.NoError(t, err)

	subject, ok := token.Subject()
	require.True(t, ok)
	assert.Equal(t, "admin", subject)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    env.config.AdminEmail,
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, rec)["message"])
}

func TestLoginUnconfigured(t *testing.T) {
	env := newTestEnv(t, false)
	env.config.AdminPassword = ""

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    env.config.AdminEmail,
		"password": "anything",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/api/updates", "", map[string]string{
		"title":       "t",
		"description": "d",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized. Please login first.", decodeBody(t, rec)["message"])
}

func TestProtectedRouteRejectsExpiredToken(t *testing.T) {
	env := newTestEnv(t, false)

	expired, err := server.IssueToken(env.config.AuthTokenSecret, env.config.AdminEmail, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/updates", expired, map[string]string{
		"title":       "t",
		"description": "d",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteRejectsForgedToken(t *testing.T) {
	env := newTestEnv(t, false)

	forged, err := server.IssueToken("some-other-secret", env.config.AdminEmail, time.Now().Add(time.Hour))
	require.NoError(t, err)

	rec := env.do(t, http.MethodDelete, "/api/updates/u1", forged, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteAcceptsValidToken(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/api/updates", env.adminToken(t), map[string]string{
		"title":       "Valid token",
		"description": "goes through",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

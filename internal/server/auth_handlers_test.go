package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func registerPayload() map[string]string {
	return map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "analytical engine",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, body := doRequest(t, env.app, jsonRequest(t, http.MethodPost, "/api/auth/register", registerPayload()))
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	auth := decodeJSON[authResponse](t, body)
	assert.NotEmpty(t, auth.Token)
	require.NotNil(t, auth.User)
	assert.Equal(t, "ada@example.com", auth.User.Email)
	assert.NotContains(t, string(body), "password", "hash must not be serialized")
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, _ := doRequest(t, env.app, jsonRequest(t, http.MethodPost, "/api/auth/register", registerPayload()))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, env.app, jsonRequest(t, http.MethodPost, "/api/auth/register", registerPayload()))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRegisterValidationEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	payload := registerPayload()
	payload["email"] = "not-an-email"
	resp, _ := doRequest(t, env.app, jsonRequest(t, http.MethodPost, "/api/auth/register", payload))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, _ := doRequest(t, env.app, jsonRequest(t, http.MethodPost, "/api/auth/register", registerPayload()))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("valid credentials", func(t *testing.T) {
		resp, body := doRequest(t, env.app, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "Ada@Example.com",
			"password": "analytical engine",
		}))
		require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
		auth := decodeJSON[authResponse](t, body)
		assert.NotEmpty(t, auth.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, _ := doRequest(t, env.app, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "ada@example.com",
			"password": "difference engine",
		}))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser(t, "Ada", "Lovelace", "ada@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", env.authHeader(t, user.ID))
	resp, _ := doRequest(t, env.app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	t.Run("missing token", func(t *testing.T) {
		resp, _ := doRequest(t, env.app, jsonRequest(t, http.MethodPost, "/api/auctions", map[string]string{}))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/auctions", map[string]string{})
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		resp, _ := doRequest(t, env.app, req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gavel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser(t, "Ada", "Lovelace", "ada@example.com")

	t.Run("public profile", func(t *testing.T) {
		resp, body := doRequest(t, env.app,
			httptest.NewRequest(http.MethodGet, "/api/users/1", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

		got := decodeJSON[models.User](t, body)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "Ada", got.FirstName)
		assert.NotContains(t, string(body), "password", "hash must not be serialized")
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, _ := doRequest(t, env.app,
			httptest.NewRequest(http.MethodGet, "/api/users/999", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, _ := doRequest(t, env.app,
			httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateProfileEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser(t, "Ada", "Lovelace", "ada@example.com")
	env.seedUser(t, "Grace", "Hopper", "grace@example.com")

	t.Run("requires auth", func(t *testing.T) {
		resp, _ := doRequest(t, env.app,
			jsonRequest(t, http.MethodPatch, "/api/users/me", map[string]string{"last_name": "Byron"}))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("updates own profile", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPatch, "/api/users/me", map[string]string{"last_name": "Byron"})
		req.Header.Set("Authorization", env.authHeader(t, user.ID))
		resp, body := doRequest(t, env.app, req)
		require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

		got := decodeJSON[models.User](t, body)
		assert.Equal(t, "Ada", got.FirstName)
		assert.Equal(t, "Byron", got.LastName)
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPatch, "/api/users/me", map[string]string{"email": "grace@example.com"})
		req.Header.Set("Authorization", env.authHeader(t, user.ID))
		resp, _ := doRequest(t, env.app, req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

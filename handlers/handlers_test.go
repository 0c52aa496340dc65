package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/authgate/app"
	"github.com/upb/authgate/config"
	"github.com/upb/authgate/middleware"
	"github.com/upb/authgate/verifier"
	"go.uber.org/zap"
)

func testDeps(t *testing.T) *app.Dependencies {
	t.Helper()
	cfg := &config.Config{
		Environment: "test",
		Auth:        config.AuthConfig{JWTSecret: "test_secret", Algorithms: []string{"HS256"}},
	}
	deps, err := app.NewDependencies(cfg, zap.NewNop())
	require.NoError(t, err)
	return deps
}

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	HealthCheck(testDeps(t))(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStatusHandler(t *testing.T) {
	w := httptest.NewRecorder()
	StatusHandler(testDeps(t))(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, Version, response["version"])
	assert.Equal(t, "test", response["environment"])
	assert.Equal(t, []interface{}{"HS256"}, response["algorithms"])
}

func TestCurrentUserHandler(t *testing.T) {
	deps := testDeps(t)

	t.Run("returns claims from context", func(t *testing.T) {
		claims := &verifier.Claims{Subject: "42", Extra: map[string]any{"email": "fan@example.com"}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
		w := httptest.NewRecorder()

		CurrentUserHandler(deps)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"sub":"42","email":"fan@example.com"}}`, w.Body.String())
	})

	t.Run("no claims in context", func(t *testing.T) {
		w := httptest.NewRecorder()
		CurrentUserHandler(deps)(w, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

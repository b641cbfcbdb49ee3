package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslys/teslys-backend/internal/auth"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func signedToken(t *testing.T, service *auth.Service, role models.Role) string {
	t.Helper()
	token, err := service.GenerateToken(&models.User{
		ID:       primitive.NewObjectID(),
		Username: "fleet-user",
		Role:     role,
	})
	require.NoError(t, err)
	return token
}

func countingHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
	})
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	service, err := auth.NewService()
	require.NoError(t, err)
	m := NewAuthMiddleware(service)

	t.Run("valid token reaches the handler with claims", func(t *testing.T) {
		token := signedToken(t, service, models.RoleHost)

		req := httptest.NewRequest(http.MethodGet, "/api/earnings", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		called := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			claims, ok := GetUserFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, "fleet-user", claims.Username)
			assert.Equal(t, models.RoleHost, claims.Role)
		})

		m.Authenticate(handler).ServeHTTP(w, req)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/earnings", nil)
		w := httptest.NewRecorder()

		called := false
		m.Authenticate(countingHandler(&called)).ServeHTTP(w, req)
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/earnings", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()

		called := false
		m.Authenticate(countingHandler(&called)).ServeHTTP(w, req)
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("public paths pass through", func(t *testing.T) {
		for _, path := range []string{"/api/auth/login", "/api/auth/register", "/health"} {
			req := httptest.NewRequest(http.MethodPost, path, nil)
			w := httptest.NewRecorder()

			called := false
			m.Authenticate(countingHandler(&called)).ServeHTTP(w, req)
			assert.True(t, called, "path %s", path)
		}
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	service, err := auth.NewService()
	require.NoError(t, err)
	m := NewAuthMiddleware(service)

	serve := func(role models.Role, gate models.Role) (bool, int) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/campaigns", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, service, role))
		w := httptest.NewRecorder()

		called := false
		m.Authenticate(m.RequireRole(gate)(countingHandler(&called))).ServeHTTP(w, req)
		return called, w.Code
	}

	t.Run("admin passes a host gate", func(t *testing.T) {
		called, code := serve(models.RoleAdmin, models.RoleHost)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("host is rejected by an admin gate", func(t *testing.T) {
		called, code := serve(models.RoleHost, models.RoleAdmin)
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("client is rejected by a host gate", func(t *testing.T) {
		called, code := serve(models.RoleClient, models.RoleHost)
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	service, err := auth.NewService()
	require.NoError(t, err)
	m := NewAuthMiddleware(service)

	serve := func(role models.Role, action string) (bool, int) {
		req := httptest.NewRequest(http.MethodGet, "/api/earnings", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, service, role))
		w := httptest.NewRecorder()

		called := false
		m.Authenticate(m.RequirePermission(action)(countingHandler(&called))).ServeHTTP(w, req)
		return called, w.Code
	}

	t.Run("admin holds every permission", func(t *testing.T) {
		called, code := serve(models.RoleAdmin, "delete_user")
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("client lacks admin permissions", func(t *testing.T) {
		called, code := serve(models.RoleClient, "delete_user")
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("client may view earnings", func(t *testing.T) {
		called, code := serve(models.RoleClient, "view_earnings")
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	m := NewRateLimitMiddleware()

	t.Run("under the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()

		called := false
		m.RateLimit(5, 60)(countingHandler(&called)).ServeHTTP(w, req)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("over the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		req.RemoteAddr = "192.168.1.2:12345"

		called := false
		limited := m.RateLimit(1, 60)(countingHandler(&called))

		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)

		called = false
		w = httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		assert.False(t, called)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("limits are per client address", func(t *testing.T) {
		called := false
		limited := m.RateLimit(1, 60)(countingHandler(&called))

		first := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		first.RemoteAddr = "192.168.1.3:12345"
		limited.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		second.RemoteAddr = "192.168.1.4:12345"
		called = false
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, second)
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetUserFromContext(t *testing.T) {
	claims := &models.Claims{UserID: "host-1", Username: "fleet-host", Role: models.RoleHost}

	ctx := context.WithValue(context.Background(), UserContextKey, claims)
	got, ok := GetUserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, claims, got)

	_, ok = GetUserFromContext(context.Background())
	assert.False(t, ok)
}

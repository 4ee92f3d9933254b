package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/auth"
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(config.CORS{AllowedOrigins: []string{"https://arena.example"}}))
	authed := r.Group("", AuthMiddleware(secret))
	authed.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(ContextUserID), "role": c.GetString(ContextUserRole)})
	})
	authed.GET("/admin", AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func token(t *testing.T, role models.Role, key string) string {
	t.Helper()
	tok, err := auth.GenerateJWT("u-42", role, key, 1)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
		body   string
	}{
		{
			name:   "missing header",
			setup:  func(*http.Request) {},
			status: http.StatusUnauthorized,
			body:   "AUTHENTICATION_ERROR",
		},
		{
			name: "malformed header",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Token abc")
			},
			status: http.StatusUnauthorized,
			body:   "Bearer {token}",
		},
		{
			name: "wrong secret",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+token(t, models.RoleUser, "other"))
			},
			status: http.StatusUnauthorized,
			body:   "invalid or expired token",
		},
		{
			name: "bearer token",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+token(t, models.RoleUser, secret))
			},
			status: http.StatusOK,
			body:   `{"id":"u-42","role":"user"}`,
		},
		{
			name: "cookie token",
			setup: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: "token", Value: token(t, models.RoleAdmin, secret)})
			},
			status: http.StatusOK,
			body:   `{"id":"u-42","role":"admin"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, models.RoleUser, secret))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHORIZATION_ERROR")

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, models.RoleAdmin, secret))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	req.Header.Set("Origin", "https://arena.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://arena.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fishlog_backend/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(t *testing.T) *auth.JWTManager {
	t.Helper()
	m, err := auth.NewJWTManager("middleware-secret-0123456789abcdef", time.Minute)
	require.NoError(t, err)
	return m
}

func protectedRouter(a *Auth, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{a.Required()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUserID(c), "username": GetUsername(c), "role": GetRole(c)})
	})
	r.GET("/private", handlers...)
	return r
}

func TestAuthRequired(t *testing.T) {
	jwtManager := newJWT(t)
	router := protectedRouter(NewAuth(jwtManager))

	token, _, err := jwtManager.GenerateToken("user-1", "juan", auth.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"user":"user-1"`)
				assert.Contains(t, w.Body.String(), `"role":"user"`)
			} else {
				assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	jwtManager := newJWT(t)
	a := NewAuth(jwtManager)

	userToken, _, err := jwtManager.GenerateToken("user-1", "juan", auth.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := jwtManager.GenerateToken("admin-1", "admin", auth.RoleAdmin)
	require.NoError(t, err)

	router := protectedRouter(a, RequirePermission(auth.PermTokensCleanup))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(requestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.fishlog.test"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.fishlog.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.fishlog.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestContainsWildcard(t *testing.T) {
	assert.True(t, containsWildcard([]string{"https://a.test", " * "}))
	assert.False(t, containsWildcard([]string{"https://a.test"}))
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/riahunter/backend/pkg/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &cfgpkg.Config{Auth: cfgpkg.AuthConfig{JWTSecret: testSecret}}
	r := gin.New()
	authed := r.Group("/", AuthMiddleware(cfg))
	authed.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	admin := authed.Group("/admin", AdminOnly())
	admin.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doGet(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	t.Run("missing header", func(t *testing.T) {
		w := doGet(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		w := doGet(r, "/me", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)
		w := doGet(r, "/me", "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		signed := signToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})
		w := doGet(r, "/me", "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing subject", func(t *testing.T) {
		signed := signToken(t, jwt.MapClaims{"role": "admin"})
		w := doGet(r, "/me", "Bearer "+signed)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		signed := signToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
		w := doGet(r, "/me", "Bearer "+signed)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", w.Body.String())
	})
}

func TestAdminOnly(t *testing.T) {
	r := newAuthRouter()

	t.Run("non-admin role", func(t *testing.T) {
		signed := signToken(t, jwt.MapClaims{"sub": "u1", "role": "user"})
		w := doGet(r, "/admin/ping", "Bearer "+signed)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin role", func(t *testing.T) {
		signed := signToken(t, jwt.MapClaims{"sub": "u1", "role": "admin"})
		w := doGet(r, "/admin/ping", "Bearer "+signed)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

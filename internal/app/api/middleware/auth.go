package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	cfgpkg "github.com/riahunter/backend/pkg/config"
	"github.com/riahunter/backend/pkg/response"
)

const (
	ctxKeyUserID = "user_id"
	ctxKeyRole   = "role"
)

// AuthMiddleware verifies the Bearer token and stores user_id/role claims in
// gin.Context and the request context (so logctx can enrich logs with them).
func AuthMiddleware(cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		userID, _ := claims["sub"].(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "token missing subject"))
			return
		}

		c.Set(ctxKeyUserID, userID)
		if role, ok := claims["role"].(string); ok {
			c.Set(ctxKeyRole, role)
		}
		ctx := context.WithValue(c.Request.Context(), ctxKeyUserID, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminOnly requires a role=admin claim set by AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role := c.GetString(ctxKeyRole); role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeUnauthorized, "admin role required"))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id stored by AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/auth"
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/database/models"
	"github.com/leetarena/arena/internal/util"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// CORSMiddleware provides a configurable CORS middleware.
func CORSMiddleware(cfg config.CORS) gin.HandlerFunc {
	return func(c *gin.Context) {
		// If no origins are configured, do nothing.
		if len(cfg.AllowedOrigins) == 0 {
			c.Next()
			return
		}

		origin := c.Request.Header.Get("Origin")
		allowOrigin := ""
		for _, o := range cfg.AllowedOrigins {
			if o == "*" {
				allowOrigin = "*"
				break
			}
			if o == origin {
				allowOrigin = origin
				break
			}
		}

		if allowOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		c.Next()
	}
}

// AuthMiddleware accepts a bearer token in the Authorization header or, failing that, the "token" cookie.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			util.Abort(c, err)
			return
		}

		claims, err := auth.ValidateJWT(tokenString, secret)
		if err != nil {
			util.Abort(c, apperr.Unauthenticated("invalid or expired token"))
			return
		}

		role := claims.Role
		if role == "" {
			role = models.RoleUser
		}
		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserRole, string(role))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
			return cookie, nil
		}
		return "", apperr.Unauthenticated("Authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", apperr.Unauthenticated("Authorization header format must be Bearer {token}")
	}
	return parts[1], nil
}

// AdminOnly must run after AuthMiddleware. It trusts the role in the token, so a role change
// takes effect only once the user's current token expires.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != string(models.RoleAdmin) {
			util.Abort(c, apperr.Forbidden("administrator role required"))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCtxKey = "admin_username"

// TokenVerifier resolves an admin session token to its username
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// AdminAuth verifies the bearer token on back-office routes
func AdminAuth(auth TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		username, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Warn("Rejected admin token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(adminCtxKey, username)
		c.Next()
	}
}

// GetAdminFromContext returns the authenticated admin username
func GetAdminFromContext(c *gin.Context) (string, bool) {
	if v, ok := c.Get(adminCtxKey); ok {
		if username, ok := v.(string); ok {
			return username, true
		}
	}
	return "", false
}

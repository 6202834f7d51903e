package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/internal/service"
	"github.com/qalamart/storeapi/pkg/errors"
)

// LoginRequest is the admin login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleAdminLogin handles POST /admin/login
func HandleAdminLogin(repos *repository.Repositories, sessions repository.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		authService := service.NewAuthService(repos, sessions, logger)

		token, err := authService.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if _, ok := err.(*errors.ErrUnauthorized); ok {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			logger.Error("Failed to log in admin", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// HandleAdminLogout handles POST /admin/logout
func HandleAdminLogout(repos *repository.Repositories, sessions repository.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing bearer token"})
			return
		}

		authService := service.NewAuthService(repos, sessions, logger)

		if err := authService.Logout(c.Request.Context(), token); err != nil {
			logger.Error("Failed to log out admin", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

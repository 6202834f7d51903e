package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/api/handlers"
	"github.com/qalamart/storeapi/internal/api/middleware"
	"github.com/qalamart/storeapi/internal/config"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/internal/service"
)

// Deps carries everything the router wires into handlers
type Deps struct {
	Repos    *repository.Repositories
	Carts    repository.CartStore
	Sessions repository.Sessions
	Gateway  service.BillCreator
	Auth     middleware.TokenVerifier
	Notifier service.Notifier
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Storefront routes (session cookie identifies the cart)
		store := v1.Group("")
		store.Use(middleware.CartSession())
		{
			store.GET("/products", handlers.HandleListProducts(deps.Repos, logger))
			store.GET("/products/:id", handlers.HandleGetProduct(deps.Repos, logger))

			store.GET("/cart", handlers.HandleGetCart(deps.Carts, deps.Repos, logger))
			store.POST("/cart/items", handlers.HandleAddCartItem(deps.Carts, deps.Repos, logger))
			store.PUT("/cart/items/:productId", handlers.HandleUpdateCartItem(deps.Carts, deps.Repos, logger))
			store.DELETE("/cart/items/:productId", handlers.HandleRemoveCartItem(deps.Carts, deps.Repos, logger))
			store.DELETE("/cart", handlers.HandleClearCart(deps.Carts, deps.Repos, logger))

			store.POST("/checkout", handlers.HandleCheckout(deps.Repos, deps.Carts, deps.Gateway, logger))
			store.GET("/payment/return", handlers.HandlePaymentReturn(deps.Repos, deps.Carts, deps.Notifier, logger))
		}

		// Gateway server-to-server callback, no session
		v1.POST("/payment/callback", handlers.HandlePaymentCallback(deps.Repos, deps.Carts, deps.Notifier, logger))

		// Admin routes
		v1.POST("/admin/login", handlers.HandleAdminLogin(deps.Repos, deps.Sessions, logger))

		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AdminAuth(deps.Auth, logger))
		{
			adminRoutes.POST("/logout", handlers.HandleAdminLogout(deps.Repos, deps.Sessions, logger))

			adminRoutes.POST("/products", handlers.HandleCreateProduct(deps.Repos, logger))
			adminRoutes.PUT("/products/:id", handlers.HandleUpdateProduct(deps.Repos, logger))
			adminRoutes.DELETE("/products/:id", handlers.HandleDeleteProduct(deps.Repos, logger))

			adminRoutes.GET("/orders", handlers.HandleListOrders(deps.Repos, logger))
			adminRoutes.GET("/orders/:id", handlers.HandleGetOrder(deps.Repos, logger))
			adminRoutes.PUT("/orders/:id/status", handlers.HandleUpdateOrderStatus(deps.Repos, logger))
			adminRoutes.PUT("/orders/:id/tracking", handlers.HandleUpdateTracking(deps.Repos, logger))
			adminRoutes.PUT("/orders/:id/notes", handlers.HandleUpdateNotes(deps.Repos, logger))
			adminRoutes.GET("/analytics", handlers.HandleAnalytics(deps.Repos, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}

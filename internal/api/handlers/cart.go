package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/api/middleware"
	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/internal/service"
	"github.com/qalamart/storeapi/pkg/errors"
)

// AddCartItemRequest is the payload for adding a product to the cart
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartItemRequest is the payload for changing a line quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func cartResponse(cart *domain.Cart) gin.H {
	return gin.H{
		"lines":      cart.Lines,
		"subtotal":   cart.Subtotal,
		"item_count": cart.ItemCount,
	}
}

// HandleGetCart handles GET /cart
func HandleGetCart(carts repository.CartStore, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartService := service.NewCartService(carts, repos.Catalog, logger)

		cart, err := cartService.Get(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			logger.Error("Failed to get cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleAddCartItem handles POST /cart/items
func HandleAddCartItem(carts repository.CartStore, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		cartService := service.NewCartService(carts, repos.Catalog, logger)

		cart, err := cartService.AddItem(c.Request.Context(), middleware.SessionID(c), req.ProductID, req.Quantity)
		if err != nil {
			switch e := err.(type) {
			case *errors.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			case *errors.ErrValidation:
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":  "validation failed",
					"fields": e.Fields,
				})
			default:
				logger.Error("Failed to add cart item", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleUpdateCartItem handles PUT /cart/items/:productId
func HandleUpdateCartItem(carts repository.CartStore, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		cartService := service.NewCartService(carts, repos.Catalog, logger)

		cart, err := cartService.UpdateQuantity(c.Request.Context(), middleware.SessionID(c), productID, req.Quantity)
		if err != nil {
			logger.Error("Failed to update cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleRemoveCartItem handles DELETE /cart/items/:productId
func HandleRemoveCartItem(carts repository.CartStore, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		cartService := service.NewCartService(carts, repos.Catalog, logger)

		cart, err := cartService.RemoveItem(c.Request.Context(), middleware.SessionID(c), productID)
		if err != nil {
			logger.Error("Failed to remove cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleClearCart handles DELETE /cart
func HandleClearCart(carts repository.CartStore, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartService := service.NewCartService(carts, repos.Catalog, logger)

		cart, err := cartService.Clear(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			logger.Error("Failed to clear cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

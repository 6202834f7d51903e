package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/internal/service"
	"github.com/qalamart/storeapi/pkg/errors"
)

// UpdateOrderStatusRequest sets the fulfilment status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTrackingRequest sets the tracking number
type UpdateTrackingRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

// UpdateNotesRequest sets the admin notes
type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

func orderResponse(order *domain.Order) gin.H {
	items := make([]gin.H, len(order.Items))
	for i, item := range order.Items {
		items[i] = gin.H{
			"product_id":    item.ProductID,
			"product_name":  item.ProductName,
			"product_image": item.ProductImage,
			"price":         item.Price,
			"quantity":      item.Quantity,
		}
	}

	return gin.H{
		"id":        order.ID.String(),
		"reference": order.Reference,
		"customer": gin.H{
			"first_name":  order.Customer.FirstName,
			"last_name":   order.Customer.LastName,
			"email":       order.Customer.Email,
			"phone":       order.Customer.Phone,
			"address":     order.Customer.Address,
			"city":        order.Customer.City,
			"state":       order.Customer.State,
			"postal_code": order.Customer.PostalCode,
			"country":     order.Customer.Country,
		},
		"items":           items,
		"subtotal":        order.Subtotal,
		"shipping_fee":    order.ShippingFee,
		"total_amount":    order.TotalAmount,
		"status":          order.Status,
		"payment_status":  order.PaymentStatus,
		"payment_method":  order.PaymentMethod,
		"bill_code":       order.BillCode,
		"tracking_number": order.TrackingNumber,
		"notes":           order.Notes,
		"created_at":      order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"updated_at":      order.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleListOrders handles GET /admin/orders
func HandleListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 1 || limit > 100 {
			limit = 50
		}

		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			offset = 0
		}

		filter := repository.OrderFilter{
			Status: domain.OrderStatus(c.Query("status")),
			Limit:  limit,
			Offset: offset,
		}

		orderService := service.NewOrderService(repos, logger)

		orders, err := orderService.List(c.Request.Context(), filter)
		if err != nil {
			if _, ok := err.(*errors.ErrValidation); ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			logger.Error("Failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		responses := make([]gin.H, len(orders))
		for i, order := range orders {
			responses[i] = orderResponse(order)
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": responses,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// HandleGetOrder handles GET /admin/orders/:id
func HandleGetOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		orderService := service.NewOrderService(repos, logger)

		order, err := orderService.Get(c.Request.Context(), orderID)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to get order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, orderResponse(order))
	}
}

// HandleUpdateOrderStatus handles PUT /admin/orders/:id/status
func HandleUpdateOrderStatus(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		orderService := service.NewOrderService(repos, logger)

		order, err := orderService.SetStatus(c.Request.Context(), orderID, domain.OrderStatus(req.Status))
		if err != nil {
			switch err.(type) {
			case *errors.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			case *errors.ErrValidation:
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			default:
				logger.Error("Failed to update order status", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":             order.ID.String(),
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
		})
	}
}

// HandleUpdateTracking handles PUT /admin/orders/:id/tracking
func HandleUpdateTracking(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req UpdateTrackingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		orderService := service.NewOrderService(repos, logger)

		order, err := orderService.SetTracking(c.Request.Context(), orderID, req.TrackingNumber)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to update tracking", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tracking"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":              order.ID.String(),
			"status":          order.Status,
			"tracking_number": order.TrackingNumber,
		})
	}
}

// HandleUpdateNotes handles PUT /admin/orders/:id/notes
func HandleUpdateNotes(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req UpdateNotesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		orderService := service.NewOrderService(repos, logger)

		order, err := orderService.SetNotes(c.Request.Context(), orderID, req.Notes)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to update notes", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notes"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":    order.ID.String(),
			"notes": order.Notes,
		})
	}
}

// HandleAnalytics handles GET /admin/analytics
func HandleAnalytics(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderService := service.NewOrderService(repos, logger)

		stats, err := orderService.Analytics(c.Request.Context())
		if err != nil {
			logger.Error("Failed to compute analytics", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		topProducts := make([]gin.H, len(stats.TopProducts))
		for i, p := range stats.TopProducts {
			topProducts[i] = gin.H{
				"product_id":   p.ProductID,
				"product_name": p.ProductName,
				"units_sold":   p.UnitsSold,
				"revenue":      p.Revenue,
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"total_orders":     stats.TotalOrders,
			"paid_revenue":     stats.PaidRevenue,
			"orders_by_status": stats.OrdersByStatus,
			"top_products":     topProducts,
		})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/api/middleware"
	"github.com/qalamart/storeapi/internal/gateway"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/internal/service"
	"github.com/qalamart/storeapi/pkg/errors"
)

// HandlePaymentCallback handles POST /payment/callback, the gateway's
// server-to-server notification. It always answers synchronously: a
// client-error for malformed or unknown payloads, success once the event
// is absorbed. Replays are acknowledged without re-applying side effects.
func HandlePaymentCallback(repos *repository.Repositories, carts repository.CartStore, notifier service.Notifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}

		event, err := gateway.ParseCallback(c.Request.PostForm)
		if err != nil {
			logger.Warn("Rejected malformed payment callback", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		paymentService := service.NewPaymentService(repos, carts, notifier, logger)

		if err := paymentService.HandleCallback(c.Request.Context(), event); err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				logger.Warn("Payment callback for unknown order",
					zap.String("order_reference", event.OrderReference),
					zap.String("bill_code", event.BillCode),
				)
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown order"})
				return
			}
			logger.Error("Failed to process payment callback",
				zap.String("order_reference", event.OrderReference),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process callback"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}

// HandlePaymentReturn handles GET /payment/return, the advisory browser
// redirect back from the gateway. It decides what the buyer sees and
// clears the session cart on success; the ledger is never touched here.
func HandlePaymentReturn(repos *repository.Repositories, carts repository.CartStore, notifier service.Notifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := service.ReturnParams{
			OrderReference: c.Query("order_id"),
			RawStatus:      c.Query("status"),
			BillCode:       c.Query("billcode"),
		}

		paymentService := service.NewPaymentService(repos, carts, notifier, logger)
		result := paymentService.HandleReturn(c.Request.Context(), middleware.SessionID(c), params)

		c.JSON(http.StatusOK, gin.H{
			"order_reference": result.OrderReference,
			"outcome":         result.Outcome,
		})
	}
}

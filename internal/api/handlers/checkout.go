package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/api/middleware"
	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/internal/service"
	"github.com/qalamart/storeapi/pkg/errors"
)

// CheckoutRequest is the buyer-submitted checkout payload
type CheckoutRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	PaymentMethod string `json:"payment_method"`
}

// HandleCheckout handles POST /checkout
func HandleCheckout(repos *repository.Repositories, carts repository.CartStore, gw service.BillCreator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		info := domain.CustomerInfo{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			Phone:      req.Phone,
			Address:    req.Address,
			City:       req.City,
			State:      req.State,
			PostalCode: req.PostalCode,
			Country:    req.Country,
		}

		paymentMethod := req.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = "gateway"
		}

		checkoutService := service.NewCheckoutService(repos, carts, gw, logger)

		result, err := checkoutService.Submit(c.Request.Context(), middleware.SessionID(c), info, paymentMethod)
		if err != nil {
			switch e := err.(type) {
			case *errors.ErrValidation:
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":  "validation failed",
					"fields": e.Fields,
				})
			case *errors.ErrGatewayNotConfigured:
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error": "payment gateway is not configured, checkout is unavailable",
				})
			default:
				logger.Error("Checkout submission failed", zap.Error(err))
				c.JSON(http.StatusBadGateway, gin.H{
					"error": "could not reach the payment gateway, please try again",
				})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":     result.OrderID.String(),
			"reference":    result.Reference,
			"bill_code":    result.BillCode,
			"payment_url":  result.PaymentURL,
			"subtotal":     result.Subtotal,
			"shipping_fee": result.ShippingFee,
			"total_amount": result.TotalAmount,
		})
	}
}

package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/gateway"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

// Shipping is a flat fee, waived above the free-shipping threshold. This is
// a business rule, not configuration.
var (
	standardShippingFee   = decimal.NewFromInt(15)
	freeShippingThreshold = decimal.NewFromInt(200)
)

const defaultCountry = "Malaysia"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// BillCreator is the slice of the payment gateway the checkout needs
type BillCreator interface {
	Configured() bool
	CreateBill(ctx context.Context, bill gateway.BillRequest) (*gateway.BillResponse, error)
}

type checkoutService struct {
	repos  *repository.Repositories
	carts  repository.CartStore
	gw     BillCreator
	logger *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(repos *repository.Repositories, carts repository.CartStore, gw BillCreator, logger *zap.Logger) *checkoutService {
	return &checkoutService{
		repos:  repos,
		carts:  carts,
		gw:     gw,
		logger: logger,
	}
}

// Validate checks the buyer-supplied contact and shipping fields. Every
// field except country must be non-blank after trimming; the email must
// have a basic local@domain shape. Returns per-field messages, empty when
// valid.
func (s *checkoutService) Validate(info domain.CustomerInfo) map[string]string {
	fieldErrors := make(map[string]string)

	required := map[string]string{
		"first_name":  info.FirstName,
		"last_name":   info.LastName,
		"email":       info.Email,
		"phone":       info.Phone,
		"address":     info.Address,
		"city":        info.City,
		"state":       info.State,
		"postal_code": info.PostalCode,
	}

	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			fieldErrors[field] = "this field is required"
		}
	}

	if _, ok := fieldErrors["email"]; !ok {
		if !emailPattern.MatchString(strings.TrimSpace(info.Email)) {
			fieldErrors["email"] = "invalid email address"
		}
	}

	return fieldErrors
}

// Shipping computes the shipping fee for a cart subtotal
func (s *checkoutService) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero
	}
	return standardShippingFee
}

// Total computes the grand total for a cart subtotal
func (s *checkoutService) Total(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(s.Shipping(subtotal))
}

// Submit validates the checkout, registers a bill with the payment gateway
// and records the order in pending/pending state. Nothing is persisted
// before the gateway hand-off succeeds, so a failed submission is safely
// retryable. The cart is not cleared here; that happens when the payment
// outcome comes back.
func (s *checkoutService) Submit(ctx context.Context, sessionID string, info domain.CustomerInfo, paymentMethod string) (*SubmitResult, error) {
	if !s.gw.Configured() {
		return nil, &errors.ErrGatewayNotConfigured{}
	}

	if fieldErrors := s.Validate(info); len(fieldErrors) > 0 {
		return nil, &errors.ErrValidation{Fields: fieldErrors}
	}

	if strings.TrimSpace(info.Country) == "" {
		info.Country = defaultCountry
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, &errors.ErrValidation{Fields: map[string]string{
			"cart": "cart is empty",
		}}
	}

	reference := newOrderReference()
	shipping := s.Shipping(cart.Subtotal)
	total := cart.Subtotal.Add(shipping)

	bill, err := s.gw.CreateBill(ctx, gateway.BillRequest{
		OrderReference: reference,
		Description:    fmt.Sprintf("Order %s (%d items)", reference, cart.ItemCount),
		Amount:         total,
		CustomerName:   strings.TrimSpace(info.FirstName + " " + info.LastName),
		CustomerEmail:  info.Email,
		CustomerPhone:  info.Phone,
	})
	if err != nil {
		s.logger.Error("Failed to create gateway bill",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, domain.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Title,
			ProductImage: line.Image,
			Price:        line.UnitPrice,
			Quantity:     line.Quantity,
		})
	}

	order := &domain.Order{
		Reference:     reference,
		Customer:      info,
		Items:         items,
		Subtotal:      cart.Subtotal,
		ShippingFee:   shipping,
		TotalAmount:   total,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentMethod: paymentMethod,
		BillCode:      &bill.BillCode,
	}

	if err := s.repos.Orders.Create(ctx, order); err != nil {
		// The bill exists at the gateway but the order does not; the bill
		// lapses at its expiry window and the callback for it is rejected
		// as unknown, logged for manual reconciliation.
		s.logger.Error("Failed to record order after bill creation",
			zap.String("reference", reference),
			zap.String("bill_code", bill.BillCode),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Checkout submitted",
		zap.String("reference", reference),
		zap.String("bill_code", bill.BillCode),
		zap.String("total", total.String()),
	)

	return &SubmitResult{
		OrderID:     order.ID,
		Reference:   reference,
		BillCode:    bill.BillCode,
		PaymentURL:  bill.PaymentURL,
		Subtotal:    cart.Subtotal,
		ShippingFee: shipping,
		TotalAmount: total,
	}, nil
}

// newOrderReference builds a unique per-submission order identifier
func newOrderReference() string {
	return fmt.Sprintf("ORD-%d-%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

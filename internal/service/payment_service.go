package service

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/gateway"
	"github.com/qalamart/storeapi/internal/repository"
)

type paymentService struct {
	repos    *repository.Repositories
	carts    repository.CartStore
	notifier Notifier
	logger   *zap.Logger
}

// NewPaymentService creates a new payment reconciliation service
func NewPaymentService(repos *repository.Repositories, carts repository.CartStore, notifier Notifier, logger *zap.Logger) *paymentService {
	return &paymentService{
		repos:    repos,
		carts:    carts,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleCallback applies the authoritative server-to-server payment signal
// to the order ledger. Replays of the same (order, status) pair are
// absorbed by the payment event ledger: side effects run at most once.
func (s *paymentService) HandleCallback(ctx context.Context, event *gateway.CallbackEvent) error {
	outcome := domain.MapGatewayStatus(event.RawStatus)

	order, err := s.repos.Orders.GetByReference(ctx, event.OrderReference)
	if err != nil {
		return err
	}

	switch outcome {
	case domain.PaymentOutcomeSuccess:
		return s.applySuccess(ctx, order, event)
	case domain.PaymentOutcomePending:
		s.logger.Info("Payment still pending at gateway",
			zap.String("reference", order.Reference),
			zap.String("raw_status", event.RawStatus),
		)
		return nil
	default:
		return s.applyFailure(ctx, order, event)
	}
}

func (s *paymentService) applySuccess(ctx context.Context, order *domain.Order, event *gateway.CallbackEvent) error {
	applied, err := s.repos.PaymentEvents.Record(ctx, &domain.PaymentEvent{
		OrderReference: order.Reference,
		Status:         domain.PaymentStatusPaid,
		BillCode:       event.BillCode,
		RawStatus:      event.RawStatus,
	})
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("Ignoring replayed success callback",
			zap.String("reference", order.Reference),
			zap.String("bill_code", event.BillCode),
		)
		return nil
	}

	s.checkAmount(order, event)

	if err := s.repos.Orders.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusPaid); err != nil {
		return err
	}
	order.PaymentStatus = domain.PaymentStatusPaid

	// Advisory promotion: only a pending order is moved to confirmed, an
	// admin's later edit is never overridden.
	if order.Status.CanTransitionTo(domain.OrderStatusConfirmed) {
		if err := s.repos.Orders.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed); err != nil {
			return err
		}
		order.Status = domain.OrderStatusConfirmed
	}

	s.notifier.OrderPaid(ctx, order)

	s.logger.Info("Payment confirmed",
		zap.String("reference", order.Reference),
		zap.String("bill_code", event.BillCode),
	)

	return nil
}

// checkAmount compares the callback's amount (cents) against the order
// total. A mismatch never blocks the reconciliation; it is logged for
// manual follow-up.
func (s *paymentService) checkAmount(order *domain.Order, event *gateway.CallbackEvent) {
	if event.Amount == "" {
		return
	}

	cents, err := strconv.ParseInt(event.Amount, 10, 64)
	if err != nil {
		s.logger.Warn("Unparseable callback amount",
			zap.String("reference", order.Reference),
			zap.String("amount", event.Amount),
		)
		return
	}

	expected := order.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart()
	if cents != expected {
		s.logger.Warn("Callback amount does not match order total",
			zap.String("reference", order.Reference),
			zap.String("bill_code", event.BillCode),
			zap.Int64("callback_cents", cents),
			zap.Int64("expected_cents", expected),
		)
	}
}

func (s *paymentService) applyFailure(ctx context.Context, order *domain.Order, event *gateway.CallbackEvent) error {
	applied, err := s.repos.PaymentEvents.Record(ctx, &domain.PaymentEvent{
		OrderReference: order.Reference,
		Status:         domain.PaymentStatusFailed,
		BillCode:       event.BillCode,
		RawStatus:      event.RawStatus,
	})
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("Ignoring replayed failure callback",
			zap.String("reference", order.Reference),
		)
		return nil
	}

	// The order stays in pending for manual follow-up, not auto-cancelled.
	if err := s.repos.Orders.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusFailed); err != nil {
		return err
	}

	s.logger.Warn("Payment failed",
		zap.String("reference", order.Reference),
		zap.String("raw_status", event.RawStatus),
		zap.String("reason", event.Reason),
	)

	return nil
}

// HandleReturn interprets the browser redirect back from the gateway. The
// redirect travels through the buyer's browser and can be replayed or
// forged, so it only decides what the buyer sees and clears the session
// cart on success. It never mutates the order ledger.
func (s *paymentService) HandleReturn(ctx context.Context, sessionID string, params ReturnParams) *ReturnResult {
	outcome := domain.MapGatewayStatus(params.RawStatus)

	if outcome == domain.PaymentOutcomeSuccess && sessionID != "" {
		if err := s.carts.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("Failed to clear cart after payment return",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}

	return &ReturnResult{
		OrderReference: params.OrderReference,
		Outcome:        outcome,
	}
}

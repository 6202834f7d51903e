package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

type orderService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new admin order service
func NewOrderService(repos *repository.Repositories, logger *zap.Logger) *orderService {
	return &orderService{
		repos:  repos,
		logger: logger,
	}
}

// Get returns an order by ID
func (s *orderService) Get(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.repos.Orders.GetByID(ctx, orderID)
}

// List returns orders matching the filter
func (s *orderService) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, &errors.ErrValidation{Fields: map[string]string{
			"status": "invalid order status",
		}}
	}
	return s.repos.Orders.List(ctx, filter)
}

// SetStatus sets the fulfilment status directly. Admins may jump to any of
// the six values; only unknown values are rejected. The payment status axis
// is untouched.
func (s *orderService) SetStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, &errors.ErrValidation{Fields: map[string]string{
			"status": "invalid order status",
		}}
	}

	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("reference", order.Reference),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)),
	)

	order.Status = status
	return order, nil
}

// SetTracking sets the tracking number. Permitted at any status; it only
// becomes meaningful once the order is shipped.
func (s *orderService) SetTracking(ctx context.Context, orderID uuid.UUID, trackingNumber string) (*domain.Order, error) {
	if err := s.repos.Orders.UpdateTracking(ctx, orderID, trackingNumber); err != nil {
		return nil, err
	}
	return s.repos.Orders.GetByID(ctx, orderID)
}

// SetNotes sets the admin notes on an order
func (s *orderService) SetNotes(ctx context.Context, orderID uuid.UUID, notes string) (*domain.Order, error) {
	if err := s.repos.Orders.UpdateNotes(ctx, orderID, notes); err != nil {
		return nil, err
	}
	return s.repos.Orders.GetByID(ctx, orderID)
}

// Analytics returns the read-only sales aggregation over the order ledger
func (s *orderService) Analytics(ctx context.Context) (*domain.SalesStats, error) {
	return s.repos.Orders.SalesStats(ctx)
}

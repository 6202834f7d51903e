package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

func TestOrderService_SetStatusFreeJump(t *testing.T) {
	orders := newMemOrderLedger()
	order := seedOrder(t, orders, "ORD-1-000001", "200")

	svc := NewOrderService(testRepos(orders, newMemPaymentEvents()), zap.NewNop())

	// admins are not bound to the forward chain
	updated, err := svc.SetStatus(context.Background(), order.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, updated.Status)

	// and may walk back out of a terminal state
	updated, err = svc.SetStatus(context.Background(), order.ID, domain.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, updated.Status)
}

func TestOrderService_SetStatusRejectsUnknownValue(t *testing.T) {
	orders := newMemOrderLedger()
	order := seedOrder(t, orders, "ORD-1-000001", "200")

	svc := NewOrderService(testRepos(orders, newMemPaymentEvents()), zap.NewNop())

	_, err := svc.SetStatus(context.Background(), order.ID, domain.OrderStatus("refunded"))

	var valErr *errors.ErrValidation
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "status")
}

func TestOrderService_SetStatusLeavesPaymentStatus(t *testing.T) {
	orders := newMemOrderLedger()
	order := seedOrder(t, orders, "ORD-1-000001", "200")
	require.NoError(t, orders.UpdatePaymentStatus(context.Background(), order.ID, domain.PaymentStatusPaid))

	svc := NewOrderService(testRepos(orders, newMemPaymentEvents()), zap.NewNop())

	_, err := svc.SetStatus(context.Background(), order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)

	stored, _ := orders.GetByID(context.Background(), order.ID)
	assert.Equal(t, domain.OrderStatusCancelled, stored.Status)
	assert.Equal(t, domain.PaymentStatusPaid, stored.PaymentStatus)
}

func TestOrderService_SetStatusUnknownOrder(t *testing.T) {
	svc := NewOrderService(testRepos(newMemOrderLedger(), newMemPaymentEvents()), zap.NewNop())

	_, err := svc.SetStatus(context.Background(), uuid.New(), domain.OrderStatusShipped)

	var notFound *errors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestOrderService_SetTrackingAndNotes(t *testing.T) {
	orders := newMemOrderLedger()
	order := seedOrder(t, orders, "ORD-1-000001", "200")

	svc := NewOrderService(testRepos(orders, newMemPaymentEvents()), zap.NewNop())

	// tracking can be set before the order ships
	updated, err := svc.SetTracking(context.Background(), order.ID, "MY123456789")
	require.NoError(t, err)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "MY123456789", *updated.TrackingNumber)

	updated, err = svc.SetNotes(context.Background(), order.ID, "customer requested gift wrap")
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "customer requested gift wrap", *updated.Notes)
	assert.Equal(t, domain.OrderStatusPending, updated.Status)
}

func TestOrderService_ListRejectsBadStatusFilter(t *testing.T) {
	svc := NewOrderService(testRepos(newMemOrderLedger(), newMemPaymentEvents()), zap.NewNop())

	_, err := svc.List(context.Background(), repository.OrderFilter{Status: "bogus"})

	var valErr *errors.ErrValidation
	require.ErrorAs(t, err, &valErr)
}

func TestOrderService_ListFiltersByStatus(t *testing.T) {
	orders := newMemOrderLedger()
	first := seedOrder(t, orders, "ORD-1-000001", "200")
	seedOrder(t, orders, "ORD-1-000002", "115")
	require.NoError(t, orders.UpdateStatus(context.Background(), first.ID, domain.OrderStatusShipped))

	svc := NewOrderService(testRepos(orders, newMemPaymentEvents()), zap.NewNop())

	shipped, err := svc.List(context.Background(), repository.OrderFilter{Status: domain.OrderStatusShipped, Limit: 50})
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, "ORD-1-000001", shipped[0].Reference)
}

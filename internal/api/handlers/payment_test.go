package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

// stubLedger holds a single order keyed by reference
type stubLedger struct {
	order *domain.Order
}

func (l *stubLedger) Create(_ context.Context, order *domain.Order) error {
	l.order = order
	return nil
}

func (l *stubLedger) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if l.order != nil && l.order.ID == id {
		return l.order, nil
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
}

func (l *stubLedger) GetByReference(_ context.Context, reference string) (*domain.Order, error) {
	if l.order != nil && l.order.Reference == reference {
		return l.order, nil
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: reference}
}

func (l *stubLedger) List(_ context.Context, _ repository.OrderFilter) ([]*domain.Order, error) {
	if l.order == nil {
		return nil, nil
	}
	return []*domain.Order{l.order}, nil
}

func (l *stubLedger) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, err := l.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	order.Status = status
	return nil
}

func (l *stubLedger) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	order, err := l.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	order.PaymentStatus = status
	return nil
}

func (l *stubLedger) UpdateTracking(_ context.Context, id uuid.UUID, trackingNumber string) error {
	order, err := l.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	order.TrackingNumber = &trackingNumber
	return nil
}

func (l *stubLedger) UpdateNotes(_ context.Context, id uuid.UUID, notes string) error {
	order, err := l.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	order.Notes = &notes
	return nil
}

func (l *stubLedger) SalesStats(_ context.Context) (*domain.SalesStats, error) {
	return &domain.SalesStats{
		PaidRevenue:    decimal.Zero,
		OrdersByStatus: map[domain.OrderStatus]int{},
	}, nil
}

// stubEvents applies each (reference, status) pair once
type stubEvents struct {
	seen map[string]bool
}

func newStubEvents() *stubEvents {
	return &stubEvents{seen: make(map[string]bool)}
}

func (e *stubEvents) Record(_ context.Context, event *domain.PaymentEvent) (bool, error) {
	key := fmt.Sprintf("%s|%s", event.OrderReference, event.Status)
	if e.seen[key] {
		return false, nil
	}
	e.seen[key] = true
	return true, nil
}

func (e *stubEvents) ListByOrder(_ context.Context, _ string) ([]*domain.PaymentEvent, error) {
	return nil, nil
}

type stubCarts struct{}

func (stubCarts) Get(_ context.Context, _ string) (*domain.Cart, error) { return domain.NewCart(), nil }
func (stubCarts) Save(_ context.Context, _ string, _ *domain.Cart) error { return nil }
func (stubCarts) Delete(_ context.Context, _ string) error              { return nil }

type stubNotifier struct {
	paid int
}

func (n *stubNotifier) OrderPaid(_ context.Context, _ *domain.Order) { n.paid++ }

func pendingOrder(reference string) *domain.Order {
	billCode := "abc123"
	return &domain.Order{
		ID:            uuid.New(),
		Reference:     reference,
		Subtotal:      decimal.RequireFromString("200.00"),
		ShippingFee:   decimal.Zero,
		TotalAmount:   decimal.RequireFromString("200.00"),
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentMethod: "gateway",
		BillCode:      &billCode,
	}
}

func callbackRouter(ledger *stubLedger, events *stubEvents, notifier *stubNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repos := &repository.Repositories{Orders: ledger, PaymentEvents: events}
	router := gin.New()
	router.POST("/v1/payment/callback", HandlePaymentCallback(repos, stubCarts{}, notifier, zap.NewNop()))
	return router
}

func postCallback(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/payment/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlePaymentCallback_Success(t *testing.T) {
	ledger := &stubLedger{order: pendingOrder("ORD-1-000001")}
	notifier := &stubNotifier{}
	router := callbackRouter(ledger, newStubEvents(), notifier)

	form := url.Values{}
	form.Set("order_id", "ORD-1-000001")
	form.Set("status", "1")
	form.Set("billcode", "abc123")
	form.Set("amount", "20000")

	w := postCallback(router, form)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PaymentStatusPaid, ledger.order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusConfirmed, ledger.order.Status)
	assert.Equal(t, 1, notifier.paid)
}

func TestHandlePaymentCallback_ReplayAcknowledged(t *testing.T) {
	ledger := &stubLedger{order: pendingOrder("ORD-1-000001")}
	notifier := &stubNotifier{}
	router := callbackRouter(ledger, newStubEvents(), notifier)

	form := url.Values{}
	form.Set("order_id", "ORD-1-000001")
	form.Set("status", "1")
	form.Set("billcode", "abc123")

	first := postCallback(router, form)
	second := postCallback(router, form)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, notifier.paid)
}

func TestHandlePaymentCallback_MalformedRejected(t *testing.T) {
	ledger := &stubLedger{order: pendingOrder("ORD-1-000001")}
	router := callbackRouter(ledger, newStubEvents(), &stubNotifier{})

	form := url.Values{}
	form.Set("status", "1")
	form.Set("billcode", "abc123")

	w := postCallback(router, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// the ledger is untouched
	assert.Equal(t, domain.PaymentStatusPending, ledger.order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusPending, ledger.order.Status)
}

func TestHandlePaymentCallback_UnknownOrder(t *testing.T) {
	router := callbackRouter(&stubLedger{}, newStubEvents(), &stubNotifier{})

	form := url.Values{}
	form.Set("order_id", "ORD-9-999999")
	form.Set("status", "1")
	form.Set("billcode", "abc123")

	w := postCallback(router, form)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlePaymentReturn(t *testing.T) {
	ledger := &stubLedger{order: pendingOrder("ORD-1-000001")}
	gin.SetMode(gin.TestMode)
	repos := &repository.Repositories{Orders: ledger, PaymentEvents: newStubEvents()}
	router := gin.New()
	router.GET("/v1/payment/return", HandlePaymentReturn(repos, stubCarts{}, &stubNotifier{}, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/v1/payment/return?order_id=ORD-1-000001&status=1&billcode=abc123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ORD-1-000001")
	// the return path never touches payment state
	assert.Equal(t, domain.PaymentStatusPending, ledger.order.PaymentStatus)
}

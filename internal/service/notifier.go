package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
)

// Notifier receives order lifecycle side effects. The payment reconciler
// guarantees OrderPaid fires at most once per order even under callback
// replays.
type Notifier interface {
	OrderPaid(ctx context.Context, order *domain.Order)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns a Notifier that records the event in the log
func NewLogNotifier(logger *zap.Logger) *logNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) OrderPaid(_ context.Context, order *domain.Order) {
	n.logger.Info("Order paid",
		zap.String("reference", order.Reference),
		zap.String("customer_email", order.Customer.Email),
		zap.String("total", order.TotalAmount.String()),
	)
}

package domain

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the order status is one of the known values
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further status changes are expected
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks the forward fulfilment walk. Admin edits set the
// status directly and are gated by IsValid only; this check is used by the
// payment reconciler for its advisory pending -> confirmed promotion.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	if newStatus == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return newStatus == OrderStatusProcessing
	case OrderStatusProcessing:
		return newStatus == OrderStatusShipped
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered
	default:
		return false
	}
}

// PaymentStatus represents the payment axis of an order, independent from
// the fulfilment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// IsValid checks if the payment status is one of the known values
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	default:
		return false
	}
}

// PaymentOutcome is the normalized result of a gateway status code
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomePending PaymentOutcome = "pending"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// MapGatewayStatus maps the gateway's raw status codes to a normalized
// outcome. Unknown codes are treated as failed.
func MapGatewayStatus(raw string) PaymentOutcome {
	switch raw {
	case "1", "success", "completed":
		return PaymentOutcomeSuccess
	case "0", "pending", "processing":
		return PaymentOutcomePending
	default:
		return PaymentOutcomeFailed
	}
}

package gateway

import (
	"net/url"

	"github.com/qalamart/storeapi/pkg/errors"
)

// CallbackEvent is the parsed server-to-server payment notification. This
// path is the authoritative payment signal; the browser return URL carries
// the same fields but is advisory only.
type CallbackEvent struct {
	OrderReference string
	BillCode       string
	RawStatus      string
	Amount         string
	Reason         string
}

// ParseCallback validates and extracts the gateway's callback form fields.
// Payloads missing the order reference, status, or bill code are rejected
// so they can never mutate an order.
func ParseCallback(form url.Values) (*CallbackEvent, error) {
	orderRef := form.Get("order_id")
	status := form.Get("status")
	billCode := form.Get("billcode")

	if orderRef == "" {
		return nil, &errors.ErrInvalidCallback{Reason: "missing order_id"}
	}
	if status == "" {
		return nil, &errors.ErrInvalidCallback{Reason: "missing status"}
	}
	if billCode == "" {
		return nil, &errors.ErrInvalidCallback{Reason: "missing billcode"}
	}

	return &CallbackEvent{
		OrderReference: orderRef,
		BillCode:       billCode,
		RawStatus:      status,
		Amount:         form.Get("amount"),
		Reason:         form.Get("reason"),
	}, nil
}

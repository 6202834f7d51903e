package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qalamart/storeapi/internal/domain"
)

// SubmitResult is returned by a successful checkout submission. The buyer
// is redirected to PaymentURL; the outcome arrives later via the gateway
// callback.
type SubmitResult struct {
	OrderID     uuid.UUID
	Reference   string
	BillCode    string
	PaymentURL  string
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	TotalAmount decimal.Decimal
}

// ReturnParams are the advisory query parameters carried by the browser
// redirect back from the gateway
type ReturnParams struct {
	OrderReference string
	RawStatus      string
	BillCode       string
}

// ReturnResult tells the storefront what to show the buyer after the
// redirect. It never reflects a ledger mutation.
type ReturnResult struct {
	OrderReference string
	Outcome        domain.PaymentOutcome
}

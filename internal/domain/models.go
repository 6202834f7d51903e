package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable artwork in the catalog
type Product struct {
	ID            int64
	Title         string
	Description   string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Image         string
	Category      string
	Dimensions    *string
	Medium        *string
	Style         *string
	InStock       bool
	Featured      bool
	Tags          []string
	Rating        *float64
	Reviews       *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CustomerInfo holds buyer contact and shipping details collected at checkout
type CustomerInfo struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Order represents a placed order in the ledger. Orders are never deleted;
// cancellation is a status value.
type Order struct {
	ID             uuid.UUID
	Reference      string
	Customer       CustomerInfo
	Items          []OrderItem
	Subtotal       decimal.Decimal
	ShippingFee    decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         OrderStatus
	PaymentStatus  PaymentStatus
	PaymentMethod  string
	BillCode       *string
	TrackingNumber *string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is a snapshot of a product at order time, intentionally decoupled
// from the live catalog so historical orders stay accurate
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    int64
	ProductName  string
	ProductImage string
	Price        decimal.Decimal
	Quantity     int
}

// PaymentEvent records an applied gateway callback for an order. The
// (OrderReference, Status) pair is unique, which makes callback replays
// detectable.
type PaymentEvent struct {
	ID             uuid.UUID
	OrderReference string
	Status         PaymentStatus
	BillCode       string
	RawStatus      string
	CreatedAt      time.Time
}

// AdminUser represents a back-office user
type AdminUser struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SalesStats is the read-only analytics aggregation over the order ledger
type SalesStats struct {
	TotalOrders    int
	PaidRevenue    decimal.Decimal
	OrdersByStatus map[OrderStatus]int
	TopProducts    []ProductSales
}

// ProductSales is one row of the top-products aggregation
type ProductSales struct {
	ProductID   int64
	ProductName string
	UnitsSold   int
	Revenue     decimal.Decimal
}

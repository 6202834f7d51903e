package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/qalamart/storeapi/internal/domain"
)

// ProductFilter narrows catalog listings
type ProductFilter struct {
	Category string
	Featured *bool
	InStock  *bool
	Limit    int
	Offset   int
}

// Catalog is the durable store of sellable products
type Catalog interface {
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

// OrderFilter narrows order listings
type OrderFilter struct {
	Status domain.OrderStatus
	Limit  int
	Offset int
}

// OrderLedger is the durable record of placed orders. Status, payment
// status, tracking and notes are updated with field-level statements so
// concurrent writers to different fields both survive.
type OrderLedger interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByReference(ctx context.Context, reference string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error
	UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
	SalesStats(ctx context.Context) (*domain.SalesStats, error)
}

// PaymentEvents is the idempotency ledger for gateway callbacks. Record
// returns false when the same (order reference, status) pair was already
// applied.
type PaymentEvents interface {
	Record(ctx context.Context, event *domain.PaymentEvent) (applied bool, err error)
	ListByOrder(ctx context.Context, orderReference string) ([]*domain.PaymentEvent, error)
}

// AdminUsers stores back-office accounts
type AdminUsers interface {
	GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	Create(ctx context.Context, user *domain.AdminUser) error
}

// CartStore persists per-session cart snapshots. A missing or malformed
// snapshot yields an empty cart, never an error the caller must handle.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// Sessions stores opaque admin session tokens
type Sessions interface {
	Create(ctx context.Context, username string) (token string, err error)
	Lookup(ctx context.Context, token string) (username string, err error)
	Delete(ctx context.Context, token string) error
}

// Repositories groups the Postgres-backed stores
type Repositories struct {
	Catalog       Catalog
	Orders        OrderLedger
	PaymentEvents PaymentEvents
	AdminUsers    AdminUsers
}

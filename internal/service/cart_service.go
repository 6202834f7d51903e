package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

// MaxLineQuantity caps the quantity of a single cart line. The cart reducer
// itself does not enforce this bound; it is clamped here at the service
// boundary.
const MaxLineQuantity = 10

type cartService struct {
	carts   repository.CartStore
	catalog repository.Catalog
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(carts repository.CartStore, catalog repository.Catalog, logger *zap.Logger) *cartService {
	return &cartService{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

// Get returns the cart for the session, empty if none exists
func (s *cartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.carts.Get(ctx, sessionID)
}

// AddItem adds a product to the session cart. Out-of-stock products are
// rejected at this boundary: the cart reducer never sees them.
func (s *cartService) AddItem(ctx context.Context, sessionID string, productID int64, qty int) (*domain.Cart, error) {
	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !product.InStock {
		return nil, &errors.ErrValidation{Fields: map[string]string{
			"product_id": "product is out of stock",
		}}
	}

	if qty < 1 {
		qty = 1
	}
	if qty > MaxLineQuantity {
		qty = MaxLineQuantity
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(product.ID, product.Title, product.Price, product.Image, qty)
	if cart.ItemQuantity(product.ID) > MaxLineQuantity {
		cart.UpdateQuantity(product.ID, MaxLineQuantity)
	}

	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// UpdateQuantity sets the quantity of a cart line. Zero or negative removes
// the line; quantities above the cap are clamped.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, qty int) (*domain.Cart, error) {
	if qty > MaxLineQuantity {
		qty = MaxLineQuantity
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.UpdateQuantity(productID, qty)

	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// RemoveItem deletes a line from the session cart. Absent products are a
// no-op.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(productID)

	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// Clear empties the session cart
func (s *cartService) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart := domain.NewCart()

	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

package domain

import "github.com/shopspring/decimal"

// CartLine is a single product entry in a cart. A cart holds at most one
// line per product.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// Cart is the session-held collection of cart lines. Subtotal and ItemCount
// are derived and recomputed after every mutation, never set directly.
type Cart struct {
	Lines     []CartLine      `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// NewCart returns an empty cart with zeroed totals
func NewCart() *Cart {
	return &Cart{
		Lines:     []CartLine{},
		Subtotal:  decimal.Zero,
		ItemCount: 0,
	}
}

// AddItem appends a new line for the product, or increments the quantity of
// the existing line. The engine does not bound the quantity; callers clamp
// before invoking. Stock checks are likewise the caller's responsibility.
func (c *Cart) AddItem(productID int64, title string, unitPrice decimal.Decimal, image string, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines[i].Quantity += qty
	} else {
		c.Lines = append(c.Lines, CartLine{
			ProductID: productID,
			Title:     title,
			UnitPrice: unitPrice,
			Quantity:  qty,
			Image:     image,
		})
	}
	c.recompute()
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line.
func (c *Cart) UpdateQuantity(productID int64, qty int) {
	if qty <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines[i].Quantity = qty
		c.recompute()
	}
}

// RemoveItem deletes the line for the product. Removing an absent product is
// a no-op, not an error.
func (c *Cart) RemoveItem(productID int64) {
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		c.recompute()
	}
}

// Clear empties all lines and zeroes the totals
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.recompute()
}

// ItemQuantity returns the quantity of the line for the product, or 0 if
// the product is not in the cart
func (c *Cart) ItemQuantity(productID int64) int {
	if i := c.lineIndex(productID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) lineIndex(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) recompute() {
	subtotal := decimal.Zero
	count := 0
	for _, line := range c.Lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		count += line.Quantity
	}
	c.Subtotal = subtotal
	c.ItemCount = count
}

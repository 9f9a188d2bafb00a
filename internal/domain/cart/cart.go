package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when the customer has never had a cart created.
	ErrNotFound = errors.New("cart not found")
	// ErrEmpty is returned when the cart exists but has no line items.
	ErrEmpty = errors.New("cart is empty")
	// ErrItemNotFound is returned when a line item does not exist in the cart.
	ErrItemNotFound = errors.New("cart item not found")
)

// Cart is a customer's in-progress, mutable collection of intended purchases.
// At most one active cart exists per customer; it is created lazily on first
// access and cleared by a successful checkout.
type Cart struct {
	ID         int64
	CustomerID int64
	Items      []LineItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LineItem is one product entry in a cart. Name, image and unit price are a
// snapshot taken when the item was added, so later catalog edits do not
// change carts or the order history derived from them.
type LineItem struct {
	ID           int64
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	Quantity     int
	CreatedAt    time.Time
}

// LineTotal returns unit price multiplied by quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Subtotal sums the line totals of the given items.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}

// TotalItems returns the summed quantity across all line items.
func (c *Cart) TotalItems() int {
	total := 0
	for _, li := range c.Items {
		total += li.Quantity
	}
	return total
}

// TotalAmount returns the cart subtotal.
func (c *Cart) TotalAmount() decimal.Decimal {
	return Subtotal(c.Items)
}

// Repository defines persistence operations for carts.
//
// Snapshot returns read-only copies of the cart's line items in insertion
// order; mutating the returned slice must not affect the stored cart. It
// fails with ErrNotFound when the customer never had a cart and ErrEmpty when
// the cart has no items.
type Repository interface {
	GetOrCreate(ctx context.Context, customerID int64) (*Cart, error)
	AddItem(ctx context.Context, customerID int64, item LineItem) error
	UpdateItemQuantity(ctx context.Context, customerID int64, productID string, quantity int) error
	RemoveItem(ctx context.Context, customerID int64, productID string) error
	Snapshot(ctx context.Context, customerID int64) ([]LineItem, error)
}

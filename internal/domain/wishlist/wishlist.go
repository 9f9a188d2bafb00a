package wishlist

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a wishlisted product with the usual denormalized snapshot.
type Item struct {
	ID           int64
	CustomerID   int64
	ProductID    string
	ProductName  string
	ProductImage string
	ProductPrice decimal.Decimal
	CreatedAt    time.Time
}

// Repository defines persistence operations for wishlists.
//
// Add is idempotent: adding a product already on the wishlist is not an
// error, and the returned bool reports whether a new item was created.
type Repository interface {
	Add(ctx context.Context, item Item) (created bool, err error)
	List(ctx context.Context, customerID int64) ([]Item, error)
	Remove(ctx context.Context, customerID int64, productID string) error
}

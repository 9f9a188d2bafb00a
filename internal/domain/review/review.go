package review

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrAlreadyReviewed is returned when a customer reviews the same product
// twice. A business-rule rejection, not a bug.
var ErrAlreadyReviewed = errors.New("product already reviewed")

// Review is a customer's rating of a product.
type Review struct {
	ID         int64
	ProductID  string
	CustomerID int64
	Rating     int
	Title      string
	Comment    string
	Approved   bool
	CreatedAt  time.Time
}

// Repository defines persistence operations for reviews.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	ListApproved(ctx context.Context, productID string) ([]Review, error)
}

package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrProfileNotFound is returned when no profile exists for an identity.
	ErrProfileNotFound = errors.New("customer profile not found")
	// ErrAddressNotFound is returned when a shipping address reference
	// cannot be resolved.
	ErrAddressNotFound = errors.New("shipping address not found")
)

// Profile is a customer's account profile.
type Profile struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// Address is a saved shipping address belonging to a profile.
type Address struct {
	ID         int64
	CustomerID int64
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}

// Repository defines lookups against the customer profile collaborator.
//
// AddressExists is scoped to the owning customer: an address ID belonging to
// a different customer reports false.
type Repository interface {
	ProfileByID(ctx context.Context, id int64) (*Profile, error)
	AddressExists(ctx context.Context, customerID, addressID int64) (bool, error)
}

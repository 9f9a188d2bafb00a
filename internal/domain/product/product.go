package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist or is inactive.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID             string
	Name           string
	Slug           string
	Description    string
	Category       string
	Brand          string
	Price          decimal.Decimal
	ImageURL       string
	StockQuantity  int
	TrackInventory bool
	Active         bool
	CreatedAt      time.Time
}

// InStock reports whether the product can cover the requested quantity at
// this point in time. Products without inventory tracking are always in stock.
func (p *Product) InStock(quantity int) bool {
	if !p.TrackInventory {
		return true
	}
	return p.StockQuantity >= quantity
}

// Sort keys accepted by Filter.Sort.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// Filter narrows and orders a catalog listing.
type Filter struct {
	Category string
	Brand    string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// Repository defines read operations for the product catalog. The catalog is
// an external collaborator of checkout: prices are consulted at cart-add
// time, never at checkout time.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

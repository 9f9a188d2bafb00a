package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// Method is a way to deliver an order.
type Method struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	EstimatedDays int
	Active        bool
}

// Repository lists the configured shipping methods.
type Repository interface {
	ListActive(ctx context.Context) ([]Method, error)
}

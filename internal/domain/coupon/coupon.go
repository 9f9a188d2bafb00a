package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Type enumerates the supported coupon discount strategies.
type Type string

const (
	// TypePercentage applies a percentage of the order subtotal,
	// optionally capped at Rule.MaximumDiscount.
	TypePercentage Type = "percentage"
	// TypeFixed applies a fixed monetary discount clamped to the subtotal.
	TypeFixed Type = "fixed"
)

var (
	// ErrInvalid is returned when no active coupon matches a code.
	ErrInvalid = errors.New("invalid coupon code")
	// ErrUsageExhausted is returned when a redemption would exceed the
	// coupon's usage limit.
	ErrUsageExhausted = errors.New("coupon usage limit reached")
)

// Rule defines a coupon's discount behaviour and eligibility constraints.
type Rule struct {
	Code            string
	Type            Type
	Value           decimal.Decimal
	Description     string
	MinimumAmount   decimal.Decimal
	MaximumDiscount decimal.Decimal // zero means no cap; percentage type only
	UsageLimit      int             // zero means unlimited
	UsedCount       int
	Active          bool
	ValidFrom       *time.Time
	ValidUntil      *time.Time
}

// Repository provides lookup and redemption of coupon rules.
//
// Redeem increments the used count and must be an atomic
// compare-and-increment: it fails with ErrUsageExhausted instead of ever
// pushing UsedCount past UsageLimit, even under concurrent redemption.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	Redeem(ctx context.Context, code string) error
	ListActive(ctx context.Context) ([]Rule, error)
}

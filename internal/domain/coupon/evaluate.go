package coupon

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Reason explains why a known coupon did not apply to an order.
type Reason string

const (
	ReasonNotStarted     Reason = "not_started"
	ReasonExpired        Reason = "expired"
	ReasonUsageExhausted Reason = "usage_exhausted"
	ReasonBelowMinimum   Reason = "below_minimum"
)

// Evaluation is the outcome of evaluating a rule against an order subtotal.
// When Applied is false the discount is zero and Reason says why; checkout
// proceeds without the coupon rather than aborting.
type Evaluation struct {
	Applied  bool
	Discount decimal.Decimal
	Reason   Reason
}

// Evaluate computes the discount a rule grants on the given subtotal.
//
// It is a pure function: it never mutates the rule or persisted state. On an
// applied evaluation the caller is responsible for redeeming the coupon
// (incrementing its used count) within the same transaction that persists the
// order.
func Evaluate(rule *Rule, subtotal decimal.Decimal, now time.Time) (Evaluation, error) {
	skip := func(r Reason) (Evaluation, error) {
		return Evaluation{Discount: decimal.Zero, Reason: r}, nil
	}

	switch {
	case rule.ValidFrom != nil && now.Before(*rule.ValidFrom):
		return skip(ReasonNotStarted)
	case rule.ValidUntil != nil && now.After(*rule.ValidUntil):
		return skip(ReasonExpired)
	case rule.UsageLimit > 0 && rule.UsedCount >= rule.UsageLimit:
		return skip(ReasonUsageExhausted)
	case subtotal.LessThan(rule.MinimumAmount):
		return skip(ReasonBelowMinimum)
	}

	var amount decimal.Decimal
	switch rule.Type {
	case TypePercentage:
		amount = subtotal.Mul(rule.Value).Div(hundred)
		if rule.MaximumDiscount.IsPositive() {
			amount = decimal.Min(amount, rule.MaximumDiscount)
		}
	case TypeFixed:
		// Clamped to the subtotal so the order total can never go negative.
		amount = decimal.Min(rule.Value, subtotal)
	default:
		return Evaluation{}, errors.Errorf("unsupported coupon type: %q", rule.Type)
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return Evaluation{Applied: true, Discount: amount.Round(2)}, nil
}

package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenloop/ecostore/internal/domain/cart"
	"github.com/greenloop/ecostore/internal/domain/coupon"
	"github.com/greenloop/ecostore/internal/domain/customer"
)

var (
	// ErrNumberConflict is returned by CheckoutTx.CreateOrder when the
	// candidate order number is already taken. The service retries the whole
	// checkout unit with a fresh number.
	ErrNumberConflict = errors.New("order number conflict")
	// ErrNumberExhausted is returned after the bounded number of
	// regeneration attempts all collide.
	ErrNumberExhausted = errors.New("order number attempts exhausted")
)

const maxNumberAttempts = 5

// CheckoutTx is the persistence surface available inside one checkout
// transaction. Every mutation made through it becomes visible atomically on
// commit, or not at all.
//
// CartLines takes the per-customer checkout lock for the remainder of the
// transaction, serializing concurrent checkout attempts by the same customer
// so that the cart read and the later ClearCart are effectively atomic.
type CheckoutTx interface {
	CartLines(ctx context.Context, customerID int64) ([]cart.LineItem, error)
	FindCoupon(ctx context.Context, code string) (*coupon.Rule, error)
	RedeemCoupon(ctx context.Context, code string) error
	CreateOrder(ctx context.Context, o *Order, intent *PaymentIntent) error
	ClearCart(ctx context.Context, customerID int64) error
}

// CheckoutStore runs a checkout unit of work. Execute commits when fn returns
// nil and rolls everything back otherwise.
type CheckoutStore interface {
	Execute(ctx context.Context, fn func(tx CheckoutTx) error) error
}

// Service composes a checkout: it converts a mutable cart into an immutable
// order, applying the coupon, recording the payment intent, and clearing the
// cart as one all-or-nothing unit.
type Service struct {
	customers customer.Repository
	checkouts CheckoutStore

	now       func() time.Time
	newNumber func(time.Time) string
}

// NewService creates a checkout Service.
func NewService(customers customer.Repository, checkouts CheckoutStore) *Service {
	return &Service{
		customers: customers,
		checkouts: checkouts,
		now:       time.Now,
		newNumber: NewNumber,
	}
}

// CheckoutRequest holds the input for one checkout attempt.
type CheckoutRequest struct {
	CustomerID        int64
	ShippingAddressID int64
	PaymentMethod     string
	CouponCode        string
}

// CheckoutResult holds the created order plus the coupon outcome, so callers
// can distinguish "no coupon", "applied", and "known but not applicable".
type CheckoutResult struct {
	Order         *Order
	CouponApplied bool
	CouponReason  coupon.Reason
}

// Checkout validates the request, then runs the transactional unit: snapshot
// the cart, evaluate and redeem the coupon, persist order + line items +
// payment intent, and clear the cart. An order-number collision re-runs the
// whole unit with a fresh number, up to maxNumberAttempts.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	method, err := ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	ok, err := s.customers.AddressExists(ctx, req.CustomerID, req.ShippingAddressID)
	if err != nil {
		return nil, errors.Wrap(err, "check shipping address")
	}
	if !ok {
		return nil, customer.ErrAddressNotFound
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		result, err := s.attempt(ctx, req, method, s.newNumber(s.now()))
		if errors.Is(err, ErrNumberConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, ErrNumberExhausted
}

func (s *Service) attempt(ctx context.Context, req CheckoutRequest, method PaymentMethod, number string) (*CheckoutResult, error) {
	var result CheckoutResult

	err := s.checkouts.Execute(ctx, func(tx CheckoutTx) error {
		lines, err := tx.CartLines(ctx, req.CustomerID)
		if err != nil {
			// A customer who never had a cart checks out an empty one.
			if errors.Is(err, cart.ErrNotFound) {
				return cart.ErrEmpty
			}
			return err
		}

		subtotal := cart.Subtotal(lines)

		discount := decimal.Zero
		applied := false
		var reason coupon.Reason
		if req.CouponCode != "" {
			discount, applied, reason, err = s.applyCoupon(ctx, tx, req.CouponCode, subtotal)
			if err != nil {
				return err
			}
		}

		items := make([]LineItem, len(lines))
		for i, li := range lines {
			items[i] = LineItem{
				ProductID:    li.ProductID,
				ProductName:  li.ProductName,
				ProductImage: li.ProductImage,
				Quantity:     li.Quantity,
				UnitPrice:    li.UnitPrice,
				TotalPrice:   li.LineTotal().Round(2),
			}
		}

		o := &Order{
			ID:                uuid.New().String(),
			Number:            number,
			CustomerID:        req.CustomerID,
			ShippingAddressID: req.ShippingAddressID,
			PaymentMethod:     method,
			Status:            StatusPending,
			PaymentStatus:     PaymentUnpaid,
			Subtotal:          subtotal.Round(2),
			DiscountAmount:    discount.Round(2),
			TotalAmount:       subtotal.Sub(discount).Round(2),
			CouponCode:        req.CouponCode,
			Items:             items,
			CreatedAt:         s.now().UTC(),
		}
		intent := &PaymentIntent{
			ID:      uuid.New().String(),
			OrderID: o.ID,
			Amount:  o.TotalAmount,
			Method:  method,
			Status:  PaymentUnpaid,
		}

		if err := tx.CreateOrder(ctx, o, intent); err != nil {
			return err
		}

		// Only after the order and its items are durably staged.
		if err := tx.ClearCart(ctx, req.CustomerID); err != nil {
			return errors.Wrap(err, "clear cart")
		}

		result = CheckoutResult{Order: o, CouponApplied: applied, CouponReason: reason}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// applyCoupon evaluates the code against the subtotal and, when applicable,
// redeems it inside the transaction. Losing the redemption race to another
// customer downgrades the outcome to not-applicable instead of failing the
// checkout.
func (s *Service) applyCoupon(ctx context.Context, tx CheckoutTx, code string, subtotal decimal.Decimal) (decimal.Decimal, bool, coupon.Reason, error) {
	rule, err := tx.FindCoupon(ctx, code)
	if err != nil {
		if errors.Is(err, coupon.ErrInvalid) {
			return decimal.Zero, false, "", coupon.ErrInvalid
		}
		return decimal.Zero, false, "", errors.Wrap(err, "find coupon")
	}

	eval, err := coupon.Evaluate(rule, subtotal, s.now())
	if err != nil {
		return decimal.Zero, false, "", errors.Wrap(err, "evaluate coupon")
	}
	if !eval.Applied {
		return decimal.Zero, false, eval.Reason, nil
	}

	if err := tx.RedeemCoupon(ctx, code); err != nil {
		if errors.Is(err, coupon.ErrUsageExhausted) {
			return decimal.Zero, false, coupon.ReasonUsageExhausted, nil
		}
		return decimal.Zero, false, "", errors.Wrap(err, "redeem coupon")
	}

	return eval.Discount, true, "", nil
}

package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/greenloop/ecostore/internal/domain/cart"
	"github.com/greenloop/ecostore/internal/domain/coupon"
	"github.com/greenloop/ecostore/internal/domain/customer"
)

// --- Mock implementations ---

type mockCustomerRepo struct {
	addresses map[int64]int64 // addressID -> owning customerID
}

func (m *mockCustomerRepo) ProfileByID(context.Context, int64) (*customer.Profile, error) {
	return nil, customer.ErrProfileNotFound
}

func (m *mockCustomerRepo) AddressExists(_ context.Context, customerID, addressID int64) (bool, error) {
	owner, ok := m.addresses[addressID]
	return ok && owner == customerID, nil
}

// memStore is an in-memory CheckoutStore with transactional semantics: all
// writes made through a memTx are staged and applied only when the unit of
// work returns nil. A store-wide mutex held for the whole Execute call stands
// in for the per-customer row lock.
type memStore struct {
	mu      sync.Mutex
	carts   map[int64][]cart.LineItem
	coupons map[string]*coupon.Rule
	orders  map[string]*Order // keyed by order number
	intents map[string]*PaymentIntent

	// forceConflicts makes the next N CreateOrder calls fail with
	// ErrNumberConflict regardless of the candidate number.
	forceConflicts int
}

func newMemStore() *memStore {
	return &memStore{
		carts:   make(map[int64][]cart.LineItem),
		coupons: make(map[string]*coupon.Rule),
		orders:  make(map[string]*Order),
		intents: make(map[string]*PaymentIntent),
	}
}

func (s *memStore) Execute(_ context.Context, fn func(tx CheckoutTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memTx struct {
	store *memStore

	redeemed      []string
	createdOrder  *Order
	createdIntent *PaymentIntent
	clearedCarts  []int64
}

func (tx *memTx) CartLines(_ context.Context, customerID int64) ([]cart.LineItem, error) {
	lines, ok := tx.store.carts[customerID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	if len(lines) == 0 {
		return nil, cart.ErrEmpty
	}
	out := make([]cart.LineItem, len(lines))
	copy(out, lines)
	return out, nil
}

func (tx *memTx) FindCoupon(_ context.Context, code string) (*coupon.Rule, error) {
	rule, ok := tx.store.coupons[strings.ToUpper(code)]
	if !ok || !rule.Active {
		return nil, coupon.ErrInvalid
	}
	c := *rule
	return &c, nil
}

func (tx *memTx) RedeemCoupon(_ context.Context, code string) error {
	rule, ok := tx.store.coupons[strings.ToUpper(code)]
	if !ok {
		return coupon.ErrInvalid
	}
	if rule.UsageLimit > 0 && rule.UsedCount >= rule.UsageLimit {
		return coupon.ErrUsageExhausted
	}
	tx.redeemed = append(tx.redeemed, strings.ToUpper(code))
	return nil
}

func (tx *memTx) CreateOrder(_ context.Context, o *Order, intent *PaymentIntent) error {
	if tx.store.forceConflicts > 0 {
		tx.store.forceConflicts--
		return ErrNumberConflict
	}
	if _, exists := tx.store.orders[o.Number]; exists {
		return ErrNumberConflict
	}
	tx.createdOrder = o
	tx.createdIntent = intent
	return nil
}

func (tx *memTx) ClearCart(_ context.Context, customerID int64) error {
	tx.clearedCarts = append(tx.clearedCarts, customerID)
	return nil
}

// commit applies staged writes. Caller holds the store mutex.
func (tx *memTx) commit() {
	for _, code := range tx.redeemed {
		tx.store.coupons[code].UsedCount++
	}
	if tx.createdOrder != nil {
		tx.store.orders[tx.createdOrder.Number] = tx.createdOrder
		tx.store.intents[tx.createdIntent.OrderID] = tx.createdIntent
	}
	for _, id := range tx.clearedCarts {
		tx.store.carts[id] = []cart.LineItem{}
	}
}

// --- Helpers ---

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCheckoutService(store *memStore) *Service {
	customers := &mockCustomerRepo{addresses: map[int64]int64{10: 1, 20: 2, 30: 3}}
	svc := NewService(customers, store)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func seedCart(store *memStore, customerID int64) {
	store.carts[customerID] = []cart.LineItem{
		{ProductID: "p1", ProductName: "Widget", UnitPrice: d("50.00"), Quantity: 3},
		{ProductID: "p2", ProductName: "Gadget", UnitPrice: d("25.00"), Quantity: 2},
	}
}

func seedCoupon(store *memStore, rule coupon.Rule) {
	rule.Active = true
	store.coupons[rule.Code] = &rule
}

func checkoutReq(customerID int64) CheckoutRequest {
	return CheckoutRequest{
		CustomerID:        customerID,
		ShippingAddressID: customerID * 10,
		PaymentMethod:     "credit_card",
	}
}

// --- Tests ---

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1)
	svc := newCheckoutService(store)

	req := checkoutReq(1)
	req.PaymentMethod = "bitcoin"
	_, err := svc.Checkout(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestCheckout_AddressNotFound(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1)
	svc := newCheckoutService(store)

	req := checkoutReq(1)
	req.ShippingAddressID = 999
	_, err := svc.Checkout(context.Background(), req)
	require.ErrorIs(t, err, customer.ErrAddressNotFound)
}

func TestCheckout_AddressOwnedByOtherCustomer(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1)
	svc := newCheckoutService(store)

	req := checkoutReq(1)
	req.ShippingAddressID = 20 // belongs to customer 2
	_, err := svc.Checkout(context.Background(), req)
	require.ErrorIs(t, err, customer.ErrAddressNotFound)
}

func TestCheckout_EmptyCart(t *testing.T) {
	store := newMemStore()
	store.carts[1] = []cart.LineItem{}
	svc := newCheckoutService(store)

	_, err := svc.Checkout(context.Background(), checkoutReq(1))
	require.ErrorIs(t, err, cart.ErrEmpty)
	assert.Empty(t, store.orders)
}

func TestCheckout_NoCartBehavesLikeEmpty(t *testing.T) {
	store := newMemStore()
	svc := newCheckoutService(store)

	_, err := svc.Checkout(context.Background(), checkoutReq(1))
	require.ErrorIs(t, err, cart.ErrEmpty)
}

func TestCheckout_NoCoupon(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1) // subtotal 200.00
	svc := newCheckoutService(store)

	result, err := svc.Checkout(context.Background(), checkoutReq(1))
	require.NoError(t, err)

	o := result.Order
	assert.True(t, d("200.00").Equal(o.Subtotal))
	assert.True(t, o.DiscountAmount.IsZero())
	assert.True(t, d("200.00").Equal(o.TotalAmount))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
	assert.Len(t, o.Items, 2)
	assert.False(t, result.CouponApplied)

	// Cart cleared and payment intent recorded atomically with the order.
	assert.Empty(t, store.carts[1])
	intent := store.intents[o.ID]
	require.NotNil(t, intent)
	assert.True(t, o.TotalAmount.Equal(intent.Amount))
	assert.Equal(t, MethodCreditCard, intent.Method)
}

func TestCheckout_LineItemSnapshots(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1)
	svc := newCheckoutService(store)

	result, err := svc.Checkout(context.Background(), checkoutReq(1))
	require.NoError(t, err)

	items := result.Order.Items
	require.Len(t, items, 2)
	assert.Equal(t, "Widget", items[0].ProductName)
	assert.True(t, d("150.00").Equal(items[0].TotalPrice))
	assert.True(t, d("50.00").Equal(items[1].TotalPrice))
}

func TestCheckout_PercentageCoupon(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1) // subtotal 200.00
	seedCoupon(store, coupon.Rule{Code: "SAVE10", Type: coupon.TypePercentage, Value: d("10")})
	svc := newCheckoutService(store)

	req := checkoutReq(1)
	req.CouponCode = "SAVE10"
	result, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.CouponApplied)
	assert.True(t, d("20.00").Equal(result.Order.DiscountAmount))
	assert.True(t, d("180.00").Equal(result.Order.TotalAmount))
	assert.Equal(t, 1, store.coupons["SAVE10"].UsedCount)
}

func TestCheckout_CouponBelowMinimumProceedsWithoutDiscount(t *testing.T) {
	store := newMemStore()
	store.carts[1] = []cart.LineItem{{ProductID: "p1", UnitPrice: d("50.00"), Quantity: 1}}
	seedCoupon(store, coupon.Rule{
		Code: "MIN100", Type: coupon.TypePercentage, Value: d("10"), MinimumAmount: d("100"),
	})
	svc := newCheckoutService(store)

	req := checkoutReq(1)
	req.CouponCode = "MIN100"
	result, err := svc.Checkout(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, result.CouponApplied)
	assert.Equal(t, coupon.ReasonBelowMinimum, result.CouponReason)
	assert.True(t, result.Order.DiscountAmount.IsZero())
	assert.True(t, d("50.00").Equal(result.Order.TotalAmount))
	assert.Equal(t, 0, store.coupons["MIN100"].UsedCount)
}

func TestCheckout_InvalidCouponFails(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1)
	svc := newCheckoutService(store)

	req := checkoutReq(1)
	req.CouponCode = "BOGUS"
	_, err := svc.Checkout(context.Background(), req)
	require.ErrorIs(t, err, coupon.ErrInvalid)

	// The failed transaction left nothing behind.
	assert.Empty(t, store.orders)
	assert.Len(t, store.carts[1], 2)
}

func TestCheckout_NumberConflictRetries(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1)
	store.forceConflicts = 2
	svc := newCheckoutService(store)

	var generated []string
	seq := 0
	svc.newNumber = func(now time.Time) string {
		seq++
		n := fmt.Sprintf("ECO20260315%08d", seq)
		generated = append(generated, n)
		return n
	}

	result, err := svc.Checkout(context.Background(), checkoutReq(1))
	require.NoError(t, err)

	// Two collisions, fresh number each attempt, third one landed.
	require.Len(t, generated, 3)
	assert.Equal(t, generated[2], result.Order.Number)
}

func TestCheckout_NumberExhausted(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1)
	store.forceConflicts = maxNumberAttempts
	svc := newCheckoutService(store)

	_, err := svc.Checkout(context.Background(), checkoutReq(1))
	require.ErrorIs(t, err, ErrNumberExhausted)

	// No attempt committed: cart intact, nothing persisted.
	assert.Len(t, store.carts[1], 2)
	assert.Empty(t, store.orders)
}

func TestCheckout_ConcurrentCustomers(t *testing.T) {
	store := newMemStore()
	for id := int64(1); id <= 3; id++ {
		seedCart(store, id)
	}
	svc := newCheckoutService(store)

	results := make([]*CheckoutResult, 3)
	g := new(errgroup.Group)
	for i := range results {
		customerID := int64(i + 1)
		g.Go(func() error {
			result, err := svc.Checkout(context.Background(), checkoutReq(customerID))
			if err != nil {
				return err
			}
			results[customerID-1] = result
			return nil
		})
	}
	require.NoError(t, g.Wait())

	numbers := make(map[string]struct{})
	for _, r := range results {
		numbers[r.Order.Number] = struct{}{}
	}
	assert.Len(t, numbers, 3)
	assert.Len(t, store.orders, 3)
}

func TestCheckout_ConcurrentCouponSingleUse(t *testing.T) {
	store := newMemStore()
	seedCart(store, 1)
	seedCart(store, 2)
	seedCoupon(store, coupon.Rule{
		Code: "ONCE", Type: coupon.TypePercentage, Value: d("10"), UsageLimit: 1,
	})
	svc := newCheckoutService(store)

	results := make([]*CheckoutResult, 2)
	g := new(errgroup.Group)
	for i := range results {
		customerID := int64(i + 1)
		g.Go(func() error {
			req := checkoutReq(customerID)
			req.CouponCode = "ONCE"
			result, err := svc.Checkout(context.Background(), req)
			if err != nil {
				return err
			}
			results[customerID-1] = result
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Both checkouts succeed, but only one wins the redemption; the loser
	// proceeds at full price.
	applied := 0
	for _, r := range results {
		if r.CouponApplied {
			applied++
			assert.True(t, d("20.00").Equal(r.Order.DiscountAmount))
		} else {
			assert.Equal(t, coupon.ReasonUsageExhausted, r.CouponReason)
			assert.True(t, r.Order.DiscountAmount.IsZero())
		}
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, store.coupons["ONCE"].UsedCount)
	assert.Len(t, store.orders, 2)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/cart"
	"github.com/greenloop/ecostore/internal/domain/coupon"
	"github.com/greenloop/ecostore/internal/domain/order"
)

const (
	// Row lock on the cart serializes concurrent checkouts by the same
	// customer: the second attempt blocks here, then finds the cart empty.
	lockCartSQL = `SELECT id FROM carts WHERE customer_id = $1 FOR UPDATE`

	insertOrderSQL = `INSERT INTO orders
		(id, order_number, customer_id, shipping_address_id, status,
		 payment_status, payment_method, subtotal, discount_amount,
		 total_amount, coupon_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	insertOrderItemSQL = `INSERT INTO order_items
		(order_id, product_id, product_name, product_image, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertPaymentIntentSQL = `INSERT INTO payment_intents
		(id, order_id, amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5)`

	clearCartItemsSQL = `DELETE FROM cart_items WHERE cart_id = $1`
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

var _ order.CheckoutStore = (*CheckoutStore)(nil)

// CheckoutStore runs checkout units of work as single PostgreSQL
// transactions. Either every write in the unit commits or none do.
type CheckoutStore struct {
	pool *pgxpool.Pool
}

// NewCheckoutStore returns a CheckoutStore that uses the given pool.
func NewCheckoutStore(pool *pgxpool.Pool) *CheckoutStore {
	return &CheckoutStore{pool: pool}
}

// Execute runs fn inside a transaction, committing on nil and rolling back on
// error. Context cancellation aborts the transaction, so a timed-out checkout
// leaves no partial order behind.
func (s *CheckoutStore) Execute(ctx context.Context, fn func(tx order.CheckoutTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning checkout transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&checkoutTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing checkout transaction: %w", err)
	}
	return nil
}

// checkoutTx implements order.CheckoutTx over one pgx transaction.
type checkoutTx struct {
	tx     pgx.Tx
	cartID int64
}

// CartLines locks the customer's cart row for the rest of the transaction and
// returns its line items. Fails with cart.ErrNotFound when the customer never
// had a cart and cart.ErrEmpty when the cart has no items.
func (c *checkoutTx) CartLines(ctx context.Context, customerID int64) ([]cart.LineItem, error) {
	err := c.tx.QueryRow(ctx, lockCartSQL, customerID).Scan(&c.cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("locking cart for customer %d: %w", customerID, err)
	}

	rows, err := c.tx.Query(ctx, listCartItemsSQL, c.cartID)
	if err != nil {
		return nil, fmt.Errorf("reading locked cart: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("reading locked cart: %w", err)
	}
	if len(items) == 0 {
		return nil, cart.ErrEmpty
	}
	return items, nil
}

// FindCoupon looks up an active coupon within the transaction.
func (c *checkoutTx) FindCoupon(ctx context.Context, code string) (*coupon.Rule, error) {
	return findCoupon(ctx, c.tx, code)
}

// RedeemCoupon performs the guarded used-count increment. Concurrent
// redemptions by other customers serialize on the coupon row; the loser of a
// last-use race gets coupon.ErrUsageExhausted.
func (c *checkoutTx) RedeemCoupon(ctx context.Context, code string) error {
	return redeemCoupon(ctx, c.tx, code)
}

// CreateOrder inserts the order header, all line items, and the payment
// intent. A duplicate order number maps to order.ErrNumberConflict so the
// composer can retry with a fresh number.
func (c *checkoutTx) CreateOrder(ctx context.Context, o *order.Order, intent *order.PaymentIntent) error {
	_, err := c.tx.Exec(ctx, insertOrderSQL,
		o.ID, o.Number, o.CustomerID, o.ShippingAddressID, o.Status,
		o.PaymentStatus, o.PaymentMethod, o.Subtotal, o.DiscountAmount,
		o.TotalAmount, o.CouponCode, o.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "orders_order_number_key" {
			return order.ErrNumberConflict
		}
		return fmt.Errorf("creating order %q: %w", o.Number, err)
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(insertOrderItemSQL,
			o.ID, item.ProductID, item.ProductName, item.ProductImage,
			item.Quantity, item.UnitPrice, item.TotalPrice,
		)
	}
	batch.Queue(insertPaymentIntentSQL,
		intent.ID, intent.OrderID, intent.Amount, intent.Method, intent.Status,
	)
	if err := c.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("creating order items for %q: %w", o.Number, err)
	}
	return nil
}

// ClearCart deletes the line items of the cart locked by CartLines.
func (c *checkoutTx) ClearCart(ctx context.Context, customerID int64) error {
	if c.cartID == 0 {
		return cart.ErrNotFound
	}
	if _, err := c.tx.Exec(ctx, clearCartItemsSQL, c.cartID); err != nil {
		return fmt.Errorf("clearing cart for customer %d: %w", customerID, err)
	}
	return nil
}

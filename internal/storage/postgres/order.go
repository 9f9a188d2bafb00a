package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/order"
)

const (
	orderColumns = `id, order_number, customer_id, shipping_address_id, status,
		payment_status, payment_method, subtotal, discount_amount, total_amount,
		coupon_code, created_at`

	listOrdersByCustomerSQL = `SELECT ` + orderColumns + `
		FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	getOrderByNumberSQL = `SELECT ` + orderColumns + `
		FROM orders WHERE customer_id = $1 AND order_number = $2`

	listOrderItemsSQL = `SELECT product_id, product_name, product_image,
		quantity, unit_price, total_price
		FROM order_items WHERE order_id = $1 ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// ListByCustomer returns the customer's orders, newest first, with items.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %d: %w", customerID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %d: %w", customerID, err)
	}

	for i := range orders {
		if orders[i].Items, err = r.items(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// GetByNumber returns one of the customer's orders by its order number.
func (r *OrderRepository) GetByNumber(ctx context.Context, customerID int64, number string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByNumberSQL, customerID, number)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", number, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", number, err)
	}

	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID string) ([]order.LineItem, error) {
	rows, err := r.pool.Query(ctx, listOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o                             order.Order
		status, payStatus, payMethod string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerID, &o.ShippingAddressID, &status,
		&payStatus, &payMethod, &o.Subtotal, &o.DiscountAmount,
		&o.TotalAmount, &o.CouponCode, &o.CreatedAt,
	)
	o.Status = order.Status(status)
	o.PaymentStatus = order.PaymentStatus(payStatus)
	o.PaymentMethod = order.PaymentMethod(payMethod)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.LineItem, error) {
	var li order.LineItem
	err := row.Scan(
		&li.ProductID, &li.ProductName, &li.ProductImage,
		&li.Quantity, &li.UnitPrice, &li.TotalPrice,
	)
	return li, err
}

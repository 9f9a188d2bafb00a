package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/cart"
)

const (
	upsertCartSQL = `INSERT INTO carts (customer_id) VALUES ($1)
		ON CONFLICT (customer_id) DO UPDATE SET updated_at = now()
		RETURNING id, customer_id, created_at, updated_at`

	cartIDByCustomerSQL = `SELECT id FROM carts WHERE customer_id = $1`

	cartItemColumns = `id, product_id, product_name, product_image, unit_price, quantity, created_at`

	listCartItemsSQL = `SELECT ` + cartItemColumns + `
		FROM cart_items WHERE cart_id = $1 ORDER BY id`

	addCartItemSQL = `INSERT INTO cart_items
		(cart_id, product_id, product_name, product_image, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	updateCartItemSQL = `UPDATE cart_items SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2`

	removeCartItemSQL = `DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetOrCreate returns the customer's cart with its items, creating the cart
// row on first access.
func (r *CartRepository) GetOrCreate(ctx context.Context, customerID int64) (*cart.Cart, error) {
	var c cart.Cart
	err := r.pool.QueryRow(ctx, upsertCartSQL, customerID).
		Scan(&c.ID, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upserting cart for customer %d: %w", customerID, err)
	}

	rows, err := r.pool.Query(ctx, listCartItemsSQL, c.ID)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	c.Items, err = pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	return &c, nil
}

// AddItem adds a line item to the customer's cart, creating the cart if
// needed and merging quantities when the product is already present.
func (r *CartRepository) AddItem(ctx context.Context, customerID int64, item cart.LineItem) error {
	c, err := r.GetOrCreate(ctx, customerID)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, addCartItemSQL,
		c.ID, item.ProductID, item.ProductName, item.ProductImage,
		item.UnitPrice, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("adding cart item %q: %w", item.ProductID, err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line item.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, customerID int64, productID string, quantity int) error {
	cartID, err := r.cartID(ctx, customerID)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, updateCartItemSQL, cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("updating cart item %q: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// RemoveItem deletes a line item from the customer's cart.
func (r *CartRepository) RemoveItem(ctx context.Context, customerID int64, productID string) error {
	cartID, err := r.cartID(ctx, customerID)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, removeCartItemSQL, cartID, productID)
	if err != nil {
		return fmt.Errorf("removing cart item %q: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Snapshot returns the customer's cart line items as value copies. Rows come
// back from the driver already detached from storage, so callers can mutate
// the result freely.
func (r *CartRepository) Snapshot(ctx context.Context, customerID int64) ([]cart.LineItem, error) {
	cartID, err := r.cartID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, listCartItemsSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("reading cart snapshot: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("reading cart snapshot: %w", err)
	}
	if len(items) == 0 {
		return nil, cart.ErrEmpty
	}
	return items, nil
}

func (r *CartRepository) cartID(ctx context.Context, customerID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, cartIDByCustomerSQL, customerID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, cart.ErrNotFound
		}
		return 0, fmt.Errorf("finding cart for customer %d: %w", customerID, err)
	}
	return id, nil
}

func scanCartItem(row pgx.CollectableRow) (cart.LineItem, error) {
	var li cart.LineItem
	err := row.Scan(
		&li.ID, &li.ProductID, &li.ProductName, &li.ProductImage,
		&li.UnitPrice, &li.Quantity, &li.CreatedAt,
	)
	return li, err
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/wishlist"
)

const (
	addWishlistItemSQL = `INSERT INTO wishlist_items
		(customer_id, product_id, product_name, product_image, product_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id, product_id) DO NOTHING`

	listWishlistSQL = `SELECT id, customer_id, product_id, product_name,
		product_image, product_price, created_at
		FROM wishlist_items WHERE customer_id = $1 ORDER BY id`

	removeWishlistItemSQL = `DELETE FROM wishlist_items
		WHERE customer_id = $1 AND product_id = $2`
)

var _ wishlist.Repository = (*WishlistRepository)(nil)

// WishlistRepository implements wishlist.Repository backed by PostgreSQL.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

// NewWishlistRepository returns a WishlistRepository that uses the given pool.
func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// Add inserts a wishlist item, reporting whether it was newly created.
func (r *WishlistRepository) Add(ctx context.Context, item wishlist.Item) (bool, error) {
	tag, err := r.pool.Exec(ctx, addWishlistItemSQL,
		item.CustomerID, item.ProductID, item.ProductName,
		item.ProductImage, item.ProductPrice,
	)
	if err != nil {
		return false, fmt.Errorf("adding wishlist item %q: %w", item.ProductID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns the customer's wishlist in insertion order.
func (r *WishlistRepository) List(ctx context.Context, customerID int64) ([]wishlist.Item, error) {
	rows, err := r.pool.Query(ctx, listWishlistSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing wishlist: %w", err)
	}
	return pgx.CollectRows(rows, scanWishlistItem)
}

// Remove deletes a product from the customer's wishlist.
func (r *WishlistRepository) Remove(ctx context.Context, customerID int64, productID string) error {
	if _, err := r.pool.Exec(ctx, removeWishlistItemSQL, customerID, productID); err != nil {
		return fmt.Errorf("removing wishlist item %q: %w", productID, err)
	}
	return nil
}

func scanWishlistItem(row pgx.CollectableRow) (wishlist.Item, error) {
	var it wishlist.Item
	err := row.Scan(
		&it.ID, &it.CustomerID, &it.ProductID, &it.ProductName,
		&it.ProductImage, &it.ProductPrice, &it.CreatedAt,
	)
	return it, err
}

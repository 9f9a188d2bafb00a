package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/product"
)

const productColumns = `id, name, slug, description, category, brand, price,
	image_url, stock_quantity, track_inventory, active, created_at`

const getProductByIDSQL = `SELECT ` + productColumns + `
	FROM products WHERE id = $1 AND active = TRUE`

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns active products matching the filter.
func (r *ProductRepository) List(ctx context.Context, f product.Filter) ([]product.Product, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products WHERE active = TRUE`)

	where := func(clause string, arg any) {
		args = append(args, arg)
		fmt.Fprintf(&sb, clause, len(args))
	}
	if f.Category != "" {
		where(" AND category = $%d", f.Category)
	}
	if f.Brand != "" {
		where(" AND brand = $%d", f.Brand)
	}
	if f.MinPrice != nil {
		where(" AND price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where(" AND price <= $%d", *f.MaxPrice)
	}
	if f.Search != "" {
		where(" AND name ILIKE '%%' || $%d || '%%'", f.Search)
	}

	switch f.Sort {
	case product.SortPriceAsc:
		sb.WriteString(" ORDER BY price")
	case product.SortPriceDesc:
		sb.WriteString(" ORDER BY price DESC")
	case product.SortNewest:
		sb.WriteString(" ORDER BY created_at DESC")
	default:
		sb.WriteString(" ORDER BY id")
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single active product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Category, &p.Brand,
		&p.Price, &p.ImageURL, &p.StockQuantity, &p.TrackInventory,
		&p.Active, &p.CreatedAt,
	)
	return p, err
}

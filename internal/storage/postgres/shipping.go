package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/shipping"
)

const listShippingMethodsSQL = `SELECT id, name, description, price,
	estimated_days, active
	FROM shipping_methods WHERE active = TRUE ORDER BY price`

var _ shipping.Repository = (*ShippingRepository)(nil)

// ShippingRepository implements shipping.Repository backed by PostgreSQL.
type ShippingRepository struct {
	pool *pgxpool.Pool
}

// NewShippingRepository returns a ShippingRepository that uses the given pool.
func NewShippingRepository(pool *pgxpool.Pool) *ShippingRepository {
	return &ShippingRepository{pool: pool}
}

// ListActive returns the active shipping methods, cheapest first.
func (r *ShippingRepository) ListActive(ctx context.Context) ([]shipping.Method, error) {
	rows, err := r.pool.Query(ctx, listShippingMethodsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing shipping methods: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (shipping.Method, error) {
		var m shipping.Method
		err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.EstimatedDays, &m.Active)
		return m, err
	})
}

package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/customer"
)

const (
	getProfileByIDSQL = `SELECT id, email, first_name, last_name, created_at
		FROM customers WHERE id = $1`

	addressExistsSQL = `SELECT EXISTS (
		SELECT 1 FROM customer_addresses WHERE id = $1 AND customer_id = $2
	)`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// ProfileByID returns a customer profile by its identifier.
func (r *CustomerRepository) ProfileByID(ctx context.Context, id int64) (*customer.Profile, error) {
	var p customer.Profile
	err := r.pool.QueryRow(ctx, getProfileByIDSQL, id).
		Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrProfileNotFound
		}
		return nil, fmt.Errorf("getting profile %d: %w", id, err)
	}
	return &p, nil
}

// AddressExists reports whether a shipping address exists and belongs to the
// given customer.
func (r *CustomerRepository) AddressExists(ctx context.Context, customerID, addressID int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, addressExistsSQL, addressID, customerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking address %d: %w", addressID, err)
	}
	return exists, nil
}

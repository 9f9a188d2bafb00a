package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/auth"
)

const getTokenByHashSQL = `SELECT id, customer_id, token_hash, name
	FROM customer_tokens WHERE token_hash = $1`

var _ auth.Repository = (*TokenRepository)(nil)

// TokenRepository implements auth.Repository backed by PostgreSQL.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a TokenRepository that uses the given pool.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// FindByHash looks up a customer token by its HMAC-SHA256 hex digest.
func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*auth.Token, error) {
	var t auth.Token
	err := r.pool.QueryRow(ctx, getTokenByHashSQL, hash).
		Scan(&t.ID, &t.CustomerID, &t.TokenHash, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, fmt.Errorf("finding token: %w", err)
	}
	return &t, nil
}

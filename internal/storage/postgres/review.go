package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/review"
)

const (
	insertReviewSQL = `INSERT INTO product_reviews
		(product_id, customer_id, rating, title, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, approved, created_at`

	listApprovedReviewsSQL = `SELECT id, product_id, customer_id, rating,
		title, comment, approved, created_at
		FROM product_reviews
		WHERE product_id = $1 AND approved = TRUE ORDER BY created_at DESC`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create persists a review. The one-review-per-customer-per-product rule is
// the unique index; a second review maps to review.ErrAlreadyReviewed.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.pool.QueryRow(ctx, insertReviewSQL,
		rv.ProductID, rv.CustomerID, rv.Rating, rv.Title, rv.Comment,
	).Scan(&rv.ID, &rv.Approved, &rv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return review.ErrAlreadyReviewed
		}
		return fmt.Errorf("creating review for product %q: %w", rv.ProductID, err)
	}
	return nil
}

// ListApproved returns a product's approved reviews, newest first.
func (r *ReviewRepository) ListApproved(ctx context.Context, productID string) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listApprovedReviewsSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for product %q: %w", productID, err)
	}
	return pgx.CollectRows(rows, scanReview)
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rv review.Review
	err := row.Scan(
		&rv.ID, &rv.ProductID, &rv.CustomerID, &rv.Rating,
		&rv.Title, &rv.Comment, &rv.Approved, &rv.CreatedAt,
	)
	return rv, err
}

package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenloop/ecostore/internal/domain/coupon"
)

const (
	couponColumns = `code, coupon_type, value, description, minimum_amount,
		maximum_discount, usage_limit, used_count, active, valid_from, valid_until`

	getCouponByCodeSQL = `SELECT ` + couponColumns + `
		FROM coupons WHERE UPPER(code) = UPPER($1) AND active = TRUE`

	listActiveCouponsSQL = `SELECT ` + couponColumns + `
		FROM coupons WHERE active = TRUE ORDER BY code`

	// Guarded increment: refuses to push used_count past usage_limit.
	redeemCouponSQL = `UPDATE coupons SET used_count = used_count + 1
		WHERE UPPER(code) = UPPER($1) AND active = TRUE
		AND (usage_limit = 0 OR used_count < usage_limit)`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks up an active coupon by its code (case-insensitive).
// Returns coupon.ErrInvalid when no matching active coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Rule, error) {
	return findCoupon(ctx, r.pool, code)
}

// Redeem atomically increments the usage counter, failing with
// coupon.ErrUsageExhausted when the limit would be exceeded.
func (r *CouponRepository) Redeem(ctx context.Context, code string) error {
	return redeemCoupon(ctx, r.pool, code)
}

// ListActive returns all active coupons ordered by code.
func (r *CouponRepository) ListActive(ctx context.Context) ([]coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, listActiveCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return pgx.CollectRows(rows, scanCouponRule)
}

func findCoupon(ctx context.Context, q querier, code string) (*coupon.Rule, error) {
	rows, err := q.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanCouponRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrInvalid
		}
		return nil, fmt.Errorf("finding coupon %q: %w", code, err)
	}
	return &rule, nil
}

func redeemCoupon(ctx context.Context, q querier, code string) error {
	tag, err := q.Exec(ctx, redeemCouponSQL, code)
	if err != nil {
		return fmt.Errorf("redeeming coupon %q: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrUsageExhausted
	}
	return nil
}

func scanCouponRule(row pgx.CollectableRow) (coupon.Rule, error) {
	var rule coupon.Rule
	var couponType string
	err := row.Scan(
		&rule.Code, &couponType, &rule.Value, &rule.Description,
		&rule.MinimumAmount, &rule.MaximumDiscount,
		&rule.UsageLimit, &rule.UsedCount, &rule.Active,
		&rule.ValidFrom, &rule.ValidUntil,
	)
	rule.Type = coupon.Type(couponType)
	return rule, err
}

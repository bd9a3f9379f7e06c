package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kawaii-shop/backend/internal/models"
	"github.com/kawaii-shop/backend/internal/utils"
)

type CouponRepository interface {
	CreateCoupon(ctx context.Context, coupon *models.Coupon) error
	GetValidCoupon(ctx context.Context, code string) (*models.Coupon, error)
	RedeemCoupon(ctx context.Context, code string) (*models.Coupon, error)
	ReleaseCoupon(ctx context.Context, code string) error
}

type couponRepository struct {
	DB *sql.DB
}

func NewCouponRepo(db *sql.DB) CouponRepository {
	return &couponRepository{DB: db}
}

const couponColumns = `id, code, discount_type, discount_value, usage_limit, used_count, active, expires_at, created_at`

func (r *couponRepository) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO coupons (id, code, discount_type, discount_value, usage_limit, used_count, active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		coupon.ID, coupon.Code, coupon.DiscountType, coupon.DiscountValue,
		coupon.UsageLimit, coupon.UsedCount, coupon.Active, coupon.ExpiresAt,
	).Scan(&coupon.CreatedAt)
}

// GetValidCoupon looks up an active coupon with remaining uses. Codes are
// case-sensitive. Expiry is deliberately NOT part of the predicate so the
// caller can tell "expired" apart from "no such coupon".
func (r *couponRepository) GetValidCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE code = $1 AND active = TRUE AND used_count < usage_limit
	`

	coupon := &models.Coupon{}

	err := r.DB.QueryRowContext(dbCtx, query, code).Scan(
		&coupon.ID, &coupon.Code, &coupon.DiscountType, &coupon.DiscountValue,
		&coupon.UsageLimit, &coupon.UsedCount, &coupon.Active, &coupon.ExpiresAt, &coupon.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return coupon, nil
}

// RedeemCoupon is the conditional increment: the usage check and the
// counter bump happen in one statement, so two concurrent checkouts can
// never both squeeze past the limit.
func (r *couponRepository) RedeemCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE code = $1 AND active = TRUE AND used_count < usage_limit
			AND (expires_at IS NULL OR expires_at > NOW())
		RETURNING ` + couponColumns + `
	`

	coupon := &models.Coupon{}

	err := r.DB.QueryRowContext(dbCtx, query, code).Scan(
		&coupon.ID, &coupon.Code, &coupon.DiscountType, &coupon.DiscountValue,
		&coupon.UsageLimit, &coupon.UsedCount, &coupon.Active, &coupon.ExpiresAt, &coupon.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	return coupon, nil
}

// ReleaseCoupon undoes a redemption when the order it paid for never made
// it into the store.
func (r *couponRepository) ReleaseCoupon(ctx context.Context, code string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE coupons
		SET used_count = used_count - 1
		WHERE code = $1 AND used_count > 0
	`

	_, err := r.DB.ExecContext(dbCtx, query, code)
	if err != nil {
		return fmt.Errorf("failed to release coupon: %w", err)
	}

	return nil
}

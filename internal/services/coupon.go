package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	"github.com/google/uuid"
)

type CouponService interface {
	CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, error)
	ValidateCoupon(ctx context.Context, code string) (*models.ValidateCouponResponse, error)
}

type couponService struct {
	repo repository.CouponRepository
}

func NewCouponService(repo repository.CouponRepository) CouponService {
	return &couponService{repo: repo}
}

// CreateCoupon implements CouponService.
func (s *couponService) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, error) {

	usageLimit := req.UsageLimit
	if usageLimit == 0 {
		usageLimit = 1
	}

	coupon := &models.Coupon{
		ID:            uuid.New(),
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		UsageLimit:    usageLimit,
		UsedCount:     0,
		Active:        true,
		ExpiresAt:     req.ExpiresAt,
	}

	if err := s.repo.CreateCoupon(ctx, coupon); err != nil {
		return nil, errors.DatabaseError("Failed to create coupon").WithError(err)
	}

	return coupon, nil
}

// ValidateCoupon implements CouponService. An unknown or exhausted code
// is NotFound; a known code past its expiry reports expired instead, so
// the shopper learns why the code no longer works.
func (s *couponService) ValidateCoupon(ctx context.Context, code string) (*models.ValidateCouponResponse, error) {

	coupon, err := s.repo.GetValidCoupon(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Invalid coupon code")
		}

		return nil, errors.DatabaseError("Failed to validate coupon").WithError(err)
	}

	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return nil, errors.CouponExpiredError("Coupon has expired")
	}

	return &models.ValidateCouponResponse{Valid: true, Coupon: coupon}, nil
}

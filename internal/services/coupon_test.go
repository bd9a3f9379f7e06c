package service_test

import (
	"database/sql"
	"testing"
	"time"

	apperrors "github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	"github.com/kawaii-shop/backend/internal/repositories/mocks"
	service "github.com/kawaii-shop/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCouponService_CreateCoupon(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Defaults Usage Limit To One", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CouponRepository)
		svc := service.NewCouponService(repo)

		repo.On("CreateCoupon", ctx, mock.MatchedBy(func(c *models.Coupon) bool {
			return c.Code == "SINGLE" && c.UsageLimit == 1 && c.Active
		})).Return(nil).Once()

		// Act
		coupon, err := svc.CreateCoupon(ctx, &models.CreateCouponRequest{
			Code:          "SINGLE",
			DiscountType:  models.DiscountFixed,
			DiscountValue: 5,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, coupon.UsageLimit)
		assert.True(t, coupon.Active)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CouponRepository)
		svc := service.NewCouponService(repo)

		repo.On("CreateCoupon", ctx, mock.AnythingOfType("*models.Coupon")).
			Return(sql.ErrConnDone).Once()

		// Act
		coupon, err := svc.CreateCoupon(ctx, &models.CreateCouponRequest{
			Code:          "WELCOME10",
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 10,
			UsageLimit:    100,
		})

		// Assert
		require.Error(t, err)
		assert.Nil(t, coupon)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestCouponService_ValidateCoupon(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Valid Coupon", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CouponRepository)
		svc := service.NewCouponService(repo)

		repo.On("GetValidCoupon", ctx, "WELCOME10").
			Return(&models.Coupon{Code: "WELCOME10", DiscountType: models.DiscountPercentage, DiscountValue: 10}, nil).Once()

		// Act
		result, err := svc.ValidateCoupon(ctx, "WELCOME10")

		// Assert
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, "WELCOME10", result.Coupon.Code)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Code", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CouponRepository)
		svc := service.NewCouponService(repo)

		repo.On("GetValidCoupon", ctx, "MISSING").Return(nil, sql.ErrNoRows).Once()

		// Act
		result, err := svc.ValidateCoupon(ctx, "MISSING")

		// Assert
		require.Error(t, err)
		assert.Nil(t, result)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Failure - Expired Code Reports Expiry", func(t *testing.T) {
		// Arrange
		repo := new(mocks.CouponRepository)
		svc := service.NewCouponService(repo)
		expired := time.Now().Add(-time.Hour)

		repo.On("GetValidCoupon", ctx, "LASTYEAR").
			Return(&models.Coupon{Code: "LASTYEAR", ExpiresAt: &expired}, nil).Once()

		// Act
		result, err := svc.ValidateCoupon(ctx, "LASTYEAR")

		// Assert
		require.Error(t, err)
		assert.Nil(t, result)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeCouponExpired, appErr.Code)
	})
}

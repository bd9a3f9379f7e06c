package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var couponCols = []string{"id", "code", "discount_type", "discount_value", "usage_limit", "used_count", "active", "expires_at", "created_at"}

func TestCouponRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCouponRepo(db)
	ctx := t.Context()

	t.Run("CreateCoupon", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			coupon := &models.Coupon{
				ID:            uuid.New(),
				Code:          "WELCOME10",
				DiscountType:  models.DiscountPercentage,
				DiscountValue: 10,
				UsageLimit:    100,
				Active:        true,
			}
			now := time.Now()

			expectedSQL := regexp.QuoteMeta(`INSERT INTO coupons (id, code, discount_type, discount_value, usage_limit, used_count, active, expires_at, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW()) RETURNING created_at`)

			mock.ExpectQuery(expectedSQL).
				WithArgs(coupon.ID, coupon.Code, coupon.DiscountType, coupon.DiscountValue, coupon.UsageLimit, coupon.UsedCount, coupon.Active, coupon.ExpiresAt).
				WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

			// Act
			err := repo.CreateCoupon(ctx, coupon)

			// Assert
			require.NoError(t, err)
			assert.WithinDuration(t, now, coupon.CreatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetValidCoupon", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, code, discount_type, discount_value, usage_limit, used_count, active, expires_at, created_at FROM coupons WHERE code = $1 AND active = TRUE AND used_count < usage_limit`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			id := uuid.New()
			now := time.Now()

			mock.ExpectQuery(expectedSQL).
				WithArgs("WELCOME10").
				WillReturnRows(sqlmock.NewRows(couponCols).
					AddRow(id, "WELCOME10", "percentage", 10.0, 100, 5, true, nil, now))

			// Act
			coupon, err := repo.GetValidCoupon(ctx, "WELCOME10")

			// Assert
			require.NoError(t, err)
			assert.Equal(t, "WELCOME10", coupon.Code)
			assert.Equal(t, models.DiscountPercentage, coupon.DiscountType)
			assert.Equal(t, 5, coupon.UsedCount)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs("MISSING").
				WillReturnError(sql.ErrNoRows)

			// Act
			coupon, err := repo.GetValidCoupon(ctx, "MISSING")

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			assert.Nil(t, coupon)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("RedeemCoupon", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`UPDATE coupons SET used_count = used_count + 1 WHERE code = $1 AND active = TRUE AND used_count < usage_limit AND (expires_at IS NULL OR expires_at > NOW()) RETURNING id, code, discount_type, discount_value, usage_limit, used_count, active, expires_at, created_at`)

		t.Run("Success - Increments Atomically", func(t *testing.T) {
			// Arrange
			id := uuid.New()
			now := time.Now()

			mock.ExpectQuery(expectedSQL).
				WithArgs("WELCOME10").
				WillReturnRows(sqlmock.NewRows(couponCols).
					AddRow(id, "WELCOME10", "percentage", 10.0, 100, 6, true, nil, now))

			// Act
			coupon, err := repo.RedeemCoupon(ctx, "WELCOME10")

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 6, coupon.UsedCount, "returned row reflects the redeemed state")
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Exhausted Or Expired - No Rows", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs("USEDUP").
				WillReturnError(sql.ErrNoRows)

			// Act
			coupon, err := repo.RedeemCoupon(ctx, "USEDUP")

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			assert.Nil(t, coupon)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("ReleaseCoupon", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`UPDATE coupons SET used_count = used_count - 1 WHERE code = $1 AND used_count > 0`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs("WELCOME10").
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.ReleaseCoupon(ctx, "WELCOME10")

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Database Error", func(t *testing.T) {
			// Arrange
			dbErr := errors.New("connection reset")

			mock.ExpectExec(expectedSQL).
				WithArgs("WELCOME10").
				WillReturnError(dbErr)

			// Act
			err := repo.ReleaseCoupon(ctx, "WELCOME10")

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, dbErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}

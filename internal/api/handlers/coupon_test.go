package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kawaii-shop/backend/internal/api/handlers"
	apperrors "github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	"github.com/kawaii-shop/backend/internal/services/mocks"
	"github.com/kawaii-shop/backend/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCouponHandler_ValidateCoupon(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CouponService)
		handler := handlers.NewCouponHandler(svc)
		userID := uuid.New()

		body := []byte(`{"code":"WELCOME10"}`)

		svc.On("ValidateCoupon", mock.Anything, "WELCOME10").
			Return(&models.ValidateCouponResponse{
				Valid:  true,
				Coupon: &models.Coupon{Code: "WELCOME10", DiscountType: models.DiscountPercentage, DiscountValue: 10},
			}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/coupons/validate", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ValidateCoupon().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeAPIResponse(t, rr)
		assert.True(t, resp.Success)
		svc.AssertExpectations(t)
	})

	t.Run("Failure - Expired Coupon", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CouponService)
		handler := handlers.NewCouponHandler(svc)
		userID := uuid.New()

		body := []byte(`{"code":"LASTYEAR"}`)

		svc.On("ValidateCoupon", mock.Anything, "LASTYEAR").
			Return(nil, apperrors.CouponExpiredError("Coupon has expired")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/coupons/validate", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ValidateCoupon().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeAPIResponse(t, rr)
		assert.Equal(t, apperrors.ErrCodeCouponExpired, resp.Error.Code)
	})

	t.Run("Failure - Unknown Code", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CouponService)
		handler := handlers.NewCouponHandler(svc)
		userID := uuid.New()

		body := []byte(`{"code":"MISSING"}`)

		svc.On("ValidateCoupon", mock.Anything, "MISSING").
			Return(nil, apperrors.NotFoundError("Invalid coupon code")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/coupons/validate", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ValidateCoupon().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Missing Code Fails Validation", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CouponService)
		handler := handlers.NewCouponHandler(svc)
		userID := uuid.New()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/coupons/validate",
			bytes.NewReader([]byte(`{}`)), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ValidateCoupon().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "ValidateCoupon", mock.Anything, mock.Anything)
	})
}

func TestCouponHandler_CreateCoupon(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CouponService)
		handler := handlers.NewCouponHandler(svc)
		userID := uuid.New()

		body, err := json.Marshal(models.CreateCouponRequest{
			Code:          "WELCOME10",
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 10,
			UsageLimit:    100,
		})
		require.NoError(t, err)

		svc.On("CreateCoupon", mock.Anything, mock.MatchedBy(func(r *models.CreateCouponRequest) bool {
			return r.Code == "WELCOME10" && r.UsageLimit == 100
		})).Return(&models.Coupon{ID: uuid.New(), Code: "WELCOME10", Active: true}, nil).Once()

		req := testutils.CreateTestRequestWithAdmin(http.MethodPost, "/api/v1/coupons", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateCoupon().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Failure - Bad Discount Type Fails Validation", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CouponService)
		handler := handlers.NewCouponHandler(svc)
		userID := uuid.New()

		body := []byte(`{"code":"WELCOME10","discount_type":"bogus","discount_value":10}`)

		req := testutils.CreateTestRequestWithAdmin(http.MethodPost, "/api/v1/coupons", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateCoupon().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "CreateCoupon", mock.Anything, mock.Anything)
	})
}

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

func verifyPaymentBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(models.VerifyPaymentRequest{
		GatewayOrderID:   "order_gw123",
		GatewayPaymentID: "pay_123",
		GatewaySignature: "sig_abc",
	})
	require.NoError(t, err)

	return body
}

func TestPaymentHandler_VerifyPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := new(mocks.OrderService)
		handler := handlers.NewPaymentHandler(svc)
		userID := uuid.New()

		svc.On("VerifyPayment", mock.Anything, mock.MatchedBy(func(r *models.VerifyPaymentRequest) bool {
			return r.GatewayOrderID == "order_gw123"
		})).Return(&models.VerifyPaymentResult{Status: "success", Message: "Payment verified successfully"}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/payments/verify",
			bytes.NewReader(verifyPaymentBody(t)), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.VerifyPayment().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeAPIResponse(t, rr)
		assert.True(t, resp.Success)
		svc.AssertExpectations(t)
	})

	t.Run("Success - Bad Signature Is Still HTTP 200", func(t *testing.T) {
		// Arrange
		svc := new(mocks.OrderService)
		handler := handlers.NewPaymentHandler(svc)
		userID := uuid.New()

		svc.On("VerifyPayment", mock.Anything, mock.AnythingOfType("*models.VerifyPaymentRequest")).
			Return(&models.VerifyPaymentResult{Status: "error", Message: "Payment verification failed"}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/payments/verify",
			bytes.NewReader(verifyPaymentBody(t)), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.VerifyPayment().ServeHTTP(rr, req)

		// Assert: the soft failure travels in the body
		assert.Equal(t, http.StatusOK, rr.Code)

		resp := decodeAPIResponse(t, rr)
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)

		var result models.VerifyPaymentResult
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Equal(t, "error", result.Status)
	})

	t.Run("Failure - Unknown Order", func(t *testing.T) {
		// Arrange
		svc := new(mocks.OrderService)
		handler := handlers.NewPaymentHandler(svc)
		userID := uuid.New()

		svc.On("VerifyPayment", mock.Anything, mock.AnythingOfType("*models.VerifyPaymentRequest")).
			Return(nil, apperrors.NotFoundError("Order not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/payments/verify",
			bytes.NewReader(verifyPaymentBody(t)), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.VerifyPayment().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Missing Signature Fails Validation", func(t *testing.T) {
		// Arrange
		svc := new(mocks.OrderService)
		handler := handlers.NewPaymentHandler(svc)
		userID := uuid.New()

		body := []byte(`{"razorpay_order_id":"order_gw123","razorpay_payment_id":"pay_123"}`)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/payments/verify",
			bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.VerifyPayment().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything)
	})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/kawaii-shop/backend/internal/api/middleware"
	"github.com/kawaii-shop/backend/internal/models"
	service "github.com/kawaii-shop/backend/internal/services"
	"github.com/kawaii-shop/backend/internal/utils"
	"github.com/kawaii-shop/backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewPaymentHandler(orderService service.OrderService) *PaymentHandler {
	return &PaymentHandler{orderService: orderService, validator: validator.New()}
}

// VerifyPayment godoc
//
//	@Summary		Verify a gateway payment
//	@Description	Checks the payment signature the browser received from the gateway. A bad signature is reported in the body with HTTP 200; only an unknown order is an HTTP error.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payment	body		models.VerifyPaymentRequest	true	"Gateway order id, payment id, and signature"
//	@Success		200		{object}	models.VerifyPaymentResult	"Verification outcome"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		404		{object}	response.ErrorResponse		"Order not found"
//	@Security		BearerAuth
//	@Router			/payments/verify [post]
func (h *PaymentHandler) VerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.VerifyPaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid verify payment input")
			return
		}

		result, err := h.orderService.VerifyPayment(r.Context(), &req)
		if err != nil {
			logger.Error("Payment verification failed", slog.String("gatewayOrderId", req.GatewayOrderID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment verification completed",
			slog.String("gatewayOrderId", req.GatewayOrderID),
			slog.String("status", result.Status))
		response.Success(w, http.StatusOK, result)
	}
}

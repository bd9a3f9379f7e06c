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

type CouponHandler struct {
	couponService service.CouponService
	validator     *validator.Validate
}

func NewCouponHandler(couponService service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService, validator: validator.New()}
}

// ValidateCoupon godoc
//
//	@Summary		Check a coupon code
//	@Description	Tells the shopper whether a code is usable before checkout. Distinguishes expired codes from unknown ones.
//	@Tags			Coupons
//	@Accept			json
//	@Produce		json
//	@Param			coupon	body		models.ValidateCouponRequest	true	"Coupon code"
//	@Success		200		{object}	models.ValidateCouponResponse	"Coupon details when valid"
//	@Failure		400		{object}	response.ErrorResponse			"Coupon has expired"
//	@Failure		404		{object}	response.ErrorResponse			"Unknown or exhausted code"
//	@Security		BearerAuth
//	@Router			/coupons/validate [post]
func (h *CouponHandler) ValidateCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.ValidateCouponRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid coupon validation input")
			return
		}

		resp, err := h.couponService.ValidateCoupon(r.Context(), req.Code)
		if err != nil {
			logger.Warn("Coupon validation failed", slog.String("code", req.Code), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

// CreateCoupon godoc
//
//	@Summary		Create a coupon (Admin)
//	@Tags			Coupons
//	@Accept			json
//	@Produce		json
//	@Param			coupon	body		models.CreateCouponRequest	true	"Coupon details"
//	@Success		201		{object}	models.Coupon				"Created coupon"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		403		{object}	response.ErrorResponse		"Admin access required"
//	@Security		BearerAuth
//	@Router			/coupons [post]
func (h *CouponHandler) CreateCoupon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCouponRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create coupon input")
			return
		}

		coupon, err := h.couponService.CreateCoupon(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create coupon", slog.String("code", req.Code), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Coupon created", slog.String("code", coupon.Code))
		response.Success(w, http.StatusCreated, coupon)
	}
}

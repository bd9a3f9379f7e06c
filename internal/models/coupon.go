package models

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID            uuid.UUID    `json:"id"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	UsageLimit    int          `json:"usage_limit"`
	UsedCount     int          `json:"used_count"`
	Active        bool         `json:"active"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// DiscountOn computes the discount this coupon grants on a gross total.
// Percentage coupons scale with the total; fixed coupons ignore it.
func (c *Coupon) DiscountOn(total float64) float64 {
	if c.DiscountType == DiscountPercentage {
		return total * (c.DiscountValue / 100)
	}

	return c.DiscountValue
}

type CreateCouponRequest struct {
	Code          string       `json:"code" validate:"required,min=2,max=64"`
	DiscountType  DiscountType `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue float64      `json:"discount_value" validate:"required,gt=0"`
	UsageLimit    int          `json:"usage_limit,omitempty" validate:"omitempty,gte=1"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
}

type ValidateCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type ValidateCouponResponse struct {
	Valid  bool    `json:"valid"`
	Coupon *Coupon `json:"coupon"`
}

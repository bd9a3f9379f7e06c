package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

type PaymentStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// orderTransitions is the allowed fulfilment state machine. paid/failed
// payment states are terminal and handled separately.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// OrderItem is a frozen value copy of a cart line at checkout time, plus
// the unit price that was resolved from the catalog when the order was
// placed. Later price changes never alter a placed order.
type OrderItem struct {
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	SelectedSize  string    `json:"selected_size,omitempty"`
	SelectedColor string    `json:"selected_color,omitempty"`
	SelectedFit   string    `json:"selected_fit,omitempty"`
}

type Order struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	Items            []OrderItem    `json:"items"`
	TotalAmount      float64        `json:"total_amount"`
	DiscountAmount   float64        `json:"discount_amount"`
	CouponCode       string         `json:"coupon_code,omitempty"`
	PaymentStatus    PaymentStatus  `json:"payment_status"`
	Status           OrderStatus    `json:"status"`
	GatewayOrderID   string         `json:"razorpay_order_id,omitempty"`
	GatewayPaymentID string         `json:"razorpay_payment_id,omitempty"`
	ShippingAddress  map[string]any `json:"shipping_address"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type OrderItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	SelectedSize  string    `json:"selected_size,omitempty"`
	SelectedColor string    `json:"selected_color,omitempty"`
	SelectedFit   string    `json:"selected_fit,omitempty"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress map[string]any     `json:"shipping_address" validate:"required"`
	CouponCode      string             `json:"coupon_code,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=created processing shipped delivered cancelled"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	GatewaySignature string `json:"razorpay_signature" validate:"required"`
}

// VerifyPaymentResult is a soft outcome: signature mismatches are
// reported in the body, not as an HTTP error status.
type VerifyPaymentResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

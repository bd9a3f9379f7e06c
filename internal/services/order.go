package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kawaii-shop/backend/internal/api/middleware"
	"github.com/kawaii-shop/backend/internal/cache"
	"github.com/kawaii-shop/backend/internal/config"
	"github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	"github.com/kawaii-shop/backend/pkg/razorpay"
	"github.com/kawaii-shop/backend/pkg/sendgrid"
	"github.com/google/uuid"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResult, error)
	GetOrder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	userRepo    repository.UserRepository
	gateway     razorpay.Client
	email       sendgrid.EmailService
	cache       cache.Cache
	currency    string
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	userRepo repository.UserRepository,
	gateway razorpay.Client,
	email sendgrid.EmailService,
	c cache.Cache,
	cfg *config.Razorpay,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		email:       email,
		cache:       c,
		currency:    cfg.Currency,
	}
}

// CreateOrder implements OrderService. The flow is: price the requested
// lines from the catalog, redeem the coupon, open a gateway payment
// order, then persist the order and clear the cart atomically. A failure
// after redemption releases the coupon again.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	var items []models.OrderItem

	var grossTotal float64

	for _, line := range req.Items {

		item := models.OrderItem{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			SelectedSize:  line.SelectedSize,
			SelectedColor: line.SelectedColor,
			SelectedFit:   line.SelectedFit,
		}

		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			// unknown products stay in the snapshot at price zero and
			// never contribute to the total
			logger.Warn("Order references unknown product", slog.String("productId", line.ProductID.String()))
		} else {
			item.UnitPrice = product.Price
			grossTotal += float64(line.Quantity) * product.Price
		}

		items = append(items, item)
	}

	var discount float64

	redeemedCoupon := ""

	if req.CouponCode != "" {
		coupon, err := s.couponRepo.RedeemCoupon(ctx, req.CouponCode)
		if err != nil {
			if err != sql.ErrNoRows {
				return nil, errors.DatabaseError("Failed to apply coupon").WithError(err)
			}

			// unusable codes silently grant nothing
			logger.Warn("Coupon not applicable at checkout", slog.String("code", req.CouponCode))
		} else {
			discount = coupon.DiscountOn(grossTotal)
			redeemedCoupon = coupon.Code
		}
	}

	finalAmount := grossTotal - discount

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     finalAmount,
		DiscountAmount:  discount,
		CouponCode:      redeemedCoupon,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusCreated,
		ShippingAddress: req.ShippingAddress,
	}

	// a fully discounted order has nothing to collect
	if finalAmount > 0 && s.gateway != nil {

		amountMinor := int64(finalAmount * 100)

		gatewayOrderID, err := s.gateway.CreateOrder(amountMinor, s.currency, order.ID.String())
		if err != nil {
			s.releaseCoupon(ctx, redeemedCoupon)

			return nil, errors.GatewayError("Failed to initiate payment").WithError(err)
		}

		order.GatewayOrderID = gatewayOrderID
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		s.releaseCoupon(ctx, redeemedCoupon)

		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	return order, nil
}

// VerifyPayment implements OrderService. A bad signature is a soft
// failure reported in the result body; only an unknown gateway order id
// surfaces as an error.
func (s *orderService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResult, error) {

	logger := middleware.LoggerFromContext(ctx)

	if s.gateway == nil {
		return &models.VerifyPaymentResult{Status: "error", Message: "Payment gateway is not configured"}, nil
	}

	if !s.gateway.VerifyPaymentSignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		logger.Warn("Payment signature verification failed", slog.String("gatewayOrderId", req.GatewayOrderID))

		return &models.VerifyPaymentResult{Status: "error", Message: "Payment verification failed"}, nil
	}

	order, err := s.orderRepo.MarkOrderPaid(ctx, req.GatewayOrderID, req.GatewayPaymentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Order not found")
		}

		return nil, errors.DatabaseError("Failed to record payment").WithError(err)
	}

	// stock changed, cached product entries are stale now
	for _, item := range order.Items {
		key := cache.Key(cache.ProductKeyPrefix, item.ProductID.String())

		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Warn("Product cache invalidation failed", slog.Any("error", err))
		}
	}

	s.sendConfirmationEmail(ctx, order)

	return &models.VerifyPaymentResult{Status: "success", Message: "Payment verified successfully"}, nil
}

// GetOrder implements OrderService. Orders are private: asking for
// someone else's order looks identical to asking for a missing one.
func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	if order.UserID != userID {
		return nil, errors.NotFoundError("Order not found")
	}

	return order, nil
}

// ListOrders implements OrderService.
func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateOrderStatus implements OrderService. Transitions outside the
// fulfilment state machine are rejected.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Order not found").WithError(err)
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, errors.BadRequestError(
			fmt.Sprintf("Cannot transition order from %s to %s", order.Status, status))
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, errors.DatabaseError("Failed to update order status").WithError(err)
	}

	order.Status = status

	return order, nil
}

func (s *orderService) releaseCoupon(ctx context.Context, code string) {
	if code == "" {
		return
	}

	if err := s.couponRepo.ReleaseCoupon(ctx, code); err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to release coupon after aborted checkout",
			slog.String("code", code), slog.Any("error", err))
	}
}

// sendConfirmationEmail is best effort: a mail outage never fails the
// payment flow.
func (s *orderService) sendConfirmationEmail(ctx context.Context, order *models.Order) {

	if s.email == nil {
		return
	}

	logger := middleware.LoggerFromContext(ctx)

	user, err := s.userRepo.GetUserByID(ctx, order.UserID)
	if err != nil {
		logger.Warn("Could not load user for confirmation email", slog.Any("error", err))

		return
	}

	msg := &sendgrid.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Order %s confirmed", order.ID),
		Content: fmt.Sprintf("Hi %s,\n\nYour payment of %.2f was received and your order %s is being processed.\n\nThank you for shopping with us!",
			user.Name, order.TotalAmount, order.ID),
	}

	if err := s.email.Send(ctx, msg); err != nil {
		logger.Warn("Failed to send confirmation email", slog.Any("error", err))
	}
}

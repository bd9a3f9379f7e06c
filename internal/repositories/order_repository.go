package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kawaii-shop/backend/internal/models"
	"github.com/kawaii-shop/backend/internal/utils"
	"github.com/google/uuid"
)

type OrderRepository interface {
	// CreateOrder inserts the order snapshot and clears the buyer's cart
	// in one transaction.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	// MarkOrderPaid flips the payment/fulfilment status and decrements
	// stock for every ordered line in the same transaction.
	MarkOrderPaid(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*models.Order, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, user_id, items, total_amount, discount_amount, coupon_code, payment_status,
	status, gateway_order_id, gateway_payment_id, shipping_address, created_at, updated_at`

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, user_id, items, total_amount, discount_amount, coupon_code, payment_status,
			status, gateway_order_id, gateway_payment_id, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`

	_, err = tx.ExecContext(dbCtx, query,
		order.ID, order.UserID, itemsJSON, order.TotalAmount, order.DiscountAmount,
		order.CouponCode, order.PaymentStatus, order.Status, order.GatewayOrderID,
		order.GatewayPaymentID, addressJSON)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// Cart is cleared unconditionally, independent of payment outcome. A
	// buyer without a persisted cart matches zero rows, which is fine.
	clearQuery := `
		UPDATE carts
		SET items = '[]', updated_at = $1
		WHERE user_id = $2
	`

	_, err = tx.ExecContext(dbCtx, clearQuery, time.Now(), order.UserID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	row := r.DB.QueryRowContext(dbCtx, query, id)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`

	err := r.DB.QueryRowContext(dbCtx, countQuery, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	// Offset
	offset := (page - 1) * size

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *orderRepository) MarkOrderPaid(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE orders
		SET payment_status = $1, status = $2, gateway_payment_id = $3, updated_at = NOW()
		WHERE gateway_order_id = $4
		RETURNING ` + orderColumns + `
	`

	row := tx.QueryRowContext(dbCtx, query,
		models.PaymentStatusPaid, models.OrderStatusProcessing, gatewayPaymentID, gatewayOrderID)

	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	// Stock decrements ride the same transaction: a crash mid-loop rolls
	// everything back instead of leaving stock half-applied.
	stockQuery := `
		UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2
	`

	for _, item := range order.Items {
		if _, err := tx.ExecContext(dbCtx, stockQuery, item.Quantity, item.ProductID); err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment update: %w", err)
	}

	return order, nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}

	var itemsJSON, addressJSON []byte

	err := row.Scan(&order.ID, &order.UserID, &itemsJSON, &order.TotalAmount, &order.DiscountAmount,
		&order.CouponCode, &order.PaymentStatus, &order.Status, &order.GatewayOrderID,
		&order.GatewayPaymentID, &addressJSON, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	return order, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kawaii-shop/backend/internal/models"
	"github.com/kawaii-shop/backend/internal/utils"
)

type AnalyticsRepository interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type analyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{DB: db}
}

const lowStockThreshold = 10

// GetDashboardStats gathers the admin overview in a handful of plain
// queries. Revenue counts paid orders only.
func (r *analyticsRepository) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	stats := &models.DashboardStats{}

	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = 'paid'),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM users)
	`

	err := r.DB.QueryRowContext(dbCtx, countsQuery).Scan(
		&stats.TotalOrders, &stats.TotalRevenue, &stats.TotalProducts, &stats.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counters: %w", err)
	}

	recentQuery := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT 5
	`

	rows, err := r.DB.QueryContext(dbCtx, recentQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent order: %w", err)
		}

		stats.RecentOrders = append(stats.RecentOrders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	lowStockQuery := `
		SELECT ` + productColumns + `
		FROM products
		WHERE stock < $1
		ORDER BY stock ASC
		LIMIT 5
	`

	productRows, err := r.DB.QueryContext(dbCtx, lowStockQuery, lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock products: %w", err)
	}

	defer productRows.Close()

	for productRows.Next() {
		product, err := scanProduct(productRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan low stock product: %w", err)
		}

		stats.LowStockProducts = append(stats.LowStockProducts, *product)
	}

	if err := productRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

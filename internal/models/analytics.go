package models

// DashboardStats is the admin overview: order/revenue/catalog/user
// counters plus the freshest orders and products running low on stock.
type DashboardStats struct {
	TotalOrders      int       `json:"total_orders"`
	TotalRevenue     float64   `json:"total_revenue"`
	TotalProducts    int       `json:"total_products"`
	TotalUsers       int       `json:"total_users"`
	RecentOrders     []Order   `json:"recent_orders"`
	LowStockProducts []Product `json:"low_stock_products"`
}

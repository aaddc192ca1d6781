package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalUsers     int64            `json:"total_users"`
	TotalOrders    int64            `json:"total_orders"`
	TotalProducts  int64            `json:"total_products"`
	TotalVendors   int64            `json:"total_vendors"`
	PendingOrders  int64            `json:"pending_orders"`
	Revenue        decimal.Decimal  `json:"revenue"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	TopProducts    []TopProduct     `json:"top_products"`
}

type TopProduct struct {
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

// GetDashboardStats aggregates the admin landing numbers. Revenue
// counts completed and processing orders only.
func GetDashboardStats(ctx context.Context, db *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{OrdersByStatus: make(map[string]int64)}

	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM vendors),
			(SELECT COUNT(*) FROM orders WHERE status = 'pending'),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status IN ('completed', 'processing'))`).
		Scan(
			&stats.TotalUsers,
			&stats.TotalOrders,
			&stats.TotalProducts,
			&stats.TotalVendors,
			&stats.PendingOrders,
			&stats.Revenue,
		)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	topRows, err := db.QueryContext(ctx,
		`SELECT product_id, product_name, SUM(quantity) AS total_quantity
		 FROM order_items
		 GROUP BY product_id, product_name
		 ORDER BY total_quantity DESC
		 LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer topRows.Close()

	for topRows.Next() {
		var top TopProduct
		if err := topRows.Scan(&top.ProductID, &top.ProductName, &top.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		stats.TopProducts = append(stats.TopProducts, top)
	}
	if err := topRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return stats, nil
}

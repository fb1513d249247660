// internal/infrastructure/database/postgres/store.go
package postgres

import (
	"context"
	"fmt"

	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/domain/order"
	"github.com/your-org/commerce-analytics/internal/domain/product"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"gorm.io/gorm"
)

const (
	completed = string(order.PaymentStatusCompleted)
	delivered = string(shipment.StatusDelivered)
	unknown   = "'" + analytics.UnknownLabel + "'"
)

// AnalyticsStore runs the report aggregations as SQL against the storefront tables
type AnalyticsStore struct {
	db *gorm.DB
}

var _ analytics.Store = (*AnalyticsStore)(nil)

// NewAnalyticsStore creates a new SQL-backed analytics store
func NewAnalyticsStore(db *gorm.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

func (s *AnalyticsStore) raw(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return fmt.Errorf("analytics query failed: %w", err)
	}
	return nil
}

// OrderTotals sums completed orders created in w
func (s *AnalyticsStore) OrderTotals(ctx context.Context, w analytics.Window) (analytics.OrderTotals, error) {
	var totals analytics.OrderTotals
	err := s.raw(ctx, &totals, `
		SELECT COUNT(*) AS orders,
			COALESCE(SUM(subtotal), 0) AS subtotal,
			COALESCE(SUM(tax), 0) AS tax,
			COALESCE(SUM(shipping), 0) AS shipping
		FROM orders
		WHERE payment_status = ? AND created_at BETWEEN ? AND ?`,
		completed, w.Start, w.End)
	return totals, err
}

// RevenueByMonth groups completed orders by UTC calendar month
func (s *AnalyticsStore) RevenueByMonth(ctx context.Context, w analytics.Window) ([]analytics.PeriodRevenue, error) {
	var rows []analytics.PeriodRevenue
	err := s.raw(ctx, &rows, `
		SELECT EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
			EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
			COALESCE(SUM(subtotal + tax + shipping), 0) AS revenue,
			COUNT(*) AS orders
		FROM orders
		WHERE payment_status = ? AND created_at BETWEEN ? AND ?
		GROUP BY 1, 2
		ORDER BY 1, 2`,
		completed, w.Start, w.End)
	return rows, err
}

// RevenueByDay groups completed orders by UTC calendar day
func (s *AnalyticsStore) RevenueByDay(ctx context.Context, w analytics.Window) ([]analytics.PeriodRevenue, error) {
	var rows []analytics.PeriodRevenue
	err := s.raw(ctx, &rows, `
		SELECT EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
			EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
			EXTRACT(DAY FROM created_at AT TIME ZONE 'UTC')::int AS day,
			COALESCE(SUM(subtotal + tax + shipping), 0) AS revenue,
			COUNT(*) AS orders
		FROM orders
		WHERE payment_status = ? AND created_at BETWEEN ? AND ?
		GROUP BY 1, 2, 3
		ORDER BY 1, 2, 3`,
		completed, w.Start, w.End)
	return rows, err
}

// TopSellingProducts ranks line items of completed orders by quantity sold
func (s *AnalyticsStore) TopSellingProducts(ctx context.Context, w analytics.Window, limit int) ([]analytics.ProductSalesRow, error) {
	var rows []analytics.ProductSalesRow
	err := s.raw(ctx, &rows, `
		SELECT oi.product_id,
			MAX(oi.name) AS name,
			SUM(oi.quantity) AS quantity,
			COALESCE(SUM(oi.subtotal), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.payment_status = ? AND o.created_at BETWEEN ? AND ?
		GROUP BY oi.product_id
		ORDER BY quantity DESC, revenue DESC, oi.product_id ASC
		LIMIT ?`,
		completed, w.Start, w.End, limit)
	return rows, err
}

// SalesByCategory joins line items to the current product category. Items whose
// product was deleted fall into the Unknown category.
func (s *AnalyticsStore) SalesByCategory(ctx context.Context, w analytics.Window) ([]analytics.CategorySalesRow, error) {
	var rows []analytics.CategorySalesRow
	err := s.raw(ctx, &rows, `
		SELECT COALESCE(NULLIF(p.category_name, ''), `+unknown+`) AS category,
			COALESCE(SUM(oi.subtotal), 0) AS revenue,
			COUNT(DISTINCT o.id) AS orders
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.payment_status = ? AND o.created_at BETWEEN ? AND ?
		GROUP BY 1
		ORDER BY revenue DESC, category ASC`,
		completed, w.Start, w.End)
	return rows, err
}

// InventoryTotals counts products and values the stock on hand
func (s *AnalyticsStore) InventoryTotals(ctx context.Context) (analytics.InventoryTotals, error) {
	var totals analytics.InventoryTotals
	err := s.raw(ctx, &totals, `
		SELECT COUNT(*) AS products,
			COALESCE(SUM(quantity * price), 0) AS value
		FROM products`)
	return totals, err
}

// StockLevels partitions the catalog by stock level in a single pass
func (s *AnalyticsStore) StockLevels(ctx context.Context) (analytics.StockLevelCounts, error) {
	var counts analytics.StockLevelCounts
	err := s.raw(ctx, &counts, `
		SELECT COUNT(*) FILTER (WHERE quantity <= 0) AS out_of_stock,
			COUNT(*) FILTER (WHERE quantity > 0 AND quantity < ?) AS low,
			COUNT(*) FILTER (WHERE quantity >= ? AND quantity < ?) AS medium,
			COUNT(*) FILTER (WHERE quantity >= ?) AS high
		FROM products`,
		product.LowStockLimit, product.LowStockLimit, product.HighStockLimit, product.HighStockLimit)
	return counts, err
}

// InventoryByCategory counts and values products per category
func (s *AnalyticsStore) InventoryByCategory(ctx context.Context) ([]analytics.CategoryStockRow, error) {
	var rows []analytics.CategoryStockRow
	err := s.raw(ctx, &rows, `
		SELECT COALESCE(NULLIF(category_name, ''), `+unknown+`) AS category,
			COUNT(*) AS products,
			COALESCE(SUM(quantity * price), 0) AS value
		FROM products
		GROUP BY 1
		ORDER BY products DESC, category ASC`)
	return rows, err
}

// TopValueProducts ranks products by stock value
func (s *AnalyticsStore) TopValueProducts(ctx context.Context, limit int) ([]analytics.ProductValueRow, error) {
	var rows []analytics.ProductValueRow
	err := s.raw(ctx, &rows, `
		SELECT id AS product_id, name, category_name AS category, quantity, price,
			quantity * price AS value
		FROM products
		ORDER BY value DESC, id ASC
		LIMIT ?`,
		limit)
	return rows, err
}

// CountCustomers counts users with the customer role
func (s *AnalyticsStore) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := s.raw(ctx, &n, `SELECT COUNT(*) FROM users WHERE role = ?`, string(user.RoleCustomer))
	return n, err
}

// CountNewCustomers counts customers registered in w
func (s *AnalyticsStore) CountNewCustomers(ctx context.Context, w analytics.Window) (int64, error) {
	var n int64
	err := s.raw(ctx, &n, `SELECT COUNT(*) FROM users WHERE role = ? AND created_at BETWEEN ? AND ?`,
		string(user.RoleCustomer), w.Start, w.End)
	return n, err
}

// CustomerTotals aggregates all-time completed orders per customer
func (s *AnalyticsStore) CustomerTotals(ctx context.Context) (analytics.CustomerTotals, error) {
	var totals analytics.CustomerTotals
	err := s.raw(ctx, &totals, `
		SELECT COUNT(*) AS active,
			COUNT(*) FILTER (WHERE orders >= 2) AS "repeat",
			COALESCE(SUM(spent), 0) AS spent
		FROM (
			SELECT customer_id, COUNT(*) AS orders, SUM(subtotal + tax + shipping) AS spent
			FROM orders
			WHERE payment_status = ?
			GROUP BY customer_id
		) per_customer`,
		completed)
	return totals, err
}

// TopCustomers ranks customers by all-time completed spend
func (s *AnalyticsStore) TopCustomers(ctx context.Context, limit int) ([]analytics.CustomerSpendRow, error) {
	var rows []analytics.CustomerSpendRow
	err := s.raw(ctx, &rows, `
		SELECT o.customer_id,
			COALESCE(NULLIF(MAX(u.name), ''), MAX(u.email), `+unknown+`) AS name,
			SUM(o.subtotal + o.tax + o.shipping) AS spent,
			COUNT(*) AS orders
		FROM orders o
		LEFT JOIN users u ON u.id = o.customer_id
		WHERE o.payment_status = ?
		GROUP BY o.customer_id
		ORDER BY spent DESC, orders DESC, o.customer_id ASC
		LIMIT ?`,
		completed, limit)
	return rows, err
}

// ShipmentsByStatus counts shipments created in w per status
func (s *AnalyticsStore) ShipmentsByStatus(ctx context.Context, w analytics.Window) ([]analytics.ShipmentStatusRow, error) {
	var rows []analytics.ShipmentStatusRow
	err := s.raw(ctx, &rows, `
		SELECT status, COUNT(*) AS count
		FROM shipments
		WHERE created_at BETWEEN ? AND ?
		GROUP BY status
		ORDER BY status`,
		w.Start, w.End)
	return rows, err
}

// CarrierPerformance aggregates shipments created in w per carrier
func (s *AnalyticsStore) CarrierPerformance(ctx context.Context, w analytics.Window) ([]analytics.CarrierShipmentRow, error) {
	var rows []analytics.CarrierShipmentRow
	err := s.raw(ctx, &rows, `
		SELECT s.carrier_id,
			COALESCE(MAX(c.name), `+unknown+`) AS name,
			COUNT(*) AS shipments,
			COUNT(*) FILTER (WHERE s.status = ?) AS delivered,
			COUNT(*) FILTER (WHERE s.status = ? AND s.delivered_at IS NOT NULL) AS timed_deliveries,
			COALESCE(SUM(EXTRACT(EPOCH FROM (s.delivered_at - s.created_at)))
				FILTER (WHERE s.status = ? AND s.delivered_at IS NOT NULL), 0)::float8 AS delivery_seconds
		FROM shipments s
		LEFT JOIN carriers c ON c.id = s.carrier_id
		WHERE s.created_at BETWEEN ? AND ?
		GROUP BY s.carrier_id
		ORDER BY delivered DESC, shipments DESC, name ASC`,
		delivered, delivered, delivered, w.Start, w.End)
	return rows, err
}

// CountActiveCarriers counts carriers flagged active
func (s *AnalyticsStore) CountActiveCarriers(ctx context.Context) (int64, error) {
	var n int64
	err := s.raw(ctx, &n, `SELECT COUNT(*) FROM carriers WHERE active = ?`, true)
	return n, err
}

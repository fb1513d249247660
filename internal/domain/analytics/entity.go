// internal/domain/analytics/entity.go
package analytics

import (
	"github.com/shopspring/decimal"
)

// Report is the composite output of the five generators
type Report struct {
	Period     Window               `json:"period"`
	Sales      SalesAnalytics       `json:"sales"`
	Inventory  InventoryAnalytics   `json:"inventory"`
	Customers  CustomerAnalytics    `json:"customers"`
	Operations OperationalAnalytics `json:"operations"`
	Financial  FinancialAnalytics   `json:"financial"`
}

// SalesAnalytics represents completed-order metrics for a window
type SalesAnalytics struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int64           `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	RevenueGrowth     float64         `json:"revenue_growth"` // Percentage
	OrdersGrowth      float64         `json:"orders_growth"`  // Percentage

	MonthlyRevenue     []MonthlyRevenue `json:"monthly_revenue"`
	DailyRevenue       []DailyRevenue   `json:"daily_revenue"`
	TopSellingProducts []ProductSales   `json:"top_selling_products"`
	SalesByCategory    []CategorySales  `json:"sales_by_category"`
}

// InventoryAnalytics represents a point-in-time catalog snapshot
type InventoryAnalytics struct {
	TotalProducts        int64                  `json:"total_products"`
	TotalInventoryValue  decimal.Decimal        `json:"total_inventory_value"`
	LowStockProducts     int64                  `json:"low_stock_products"`
	OutOfStockProducts   int64                  `json:"out_of_stock_products"`
	InventoryTurnover    float64                `json:"inventory_turnover"`
	CategoryDistribution []CategoryDistribution `json:"category_distribution"`
	StockLevels          []StockLevelBucket     `json:"stock_levels"`
	TopValueProducts     []ProductValue         `json:"top_value_products"`
}

// CustomerAnalytics represents customer metrics
type CustomerAnalytics struct {
	TotalCustomers               int64           `json:"total_customers"`
	NewCustomers                 int64           `json:"new_customers"`
	ActiveCustomers              int64           `json:"active_customers"`
	CustomerGrowth               float64         `json:"customer_growth"`         // Percentage
	CustomerRetentionRate        float64         `json:"customer_retention_rate"` // Percentage
	AverageCustomerLifetimeValue decimal.Decimal `json:"average_customer_lifetime_value"`
	TopCustomers                 []CustomerSpend `json:"top_customers"`
}

// OperationalAnalytics represents shipment and carrier metrics
type OperationalAnalytics struct {
	TotalShipments      int64                `json:"total_shipments"`
	OnTimeDeliveryRate  float64              `json:"on_time_delivery_rate"` // Percentage
	AverageDeliveryTime float64              `json:"average_delivery_time"` // Days
	ReturnRate          float64              `json:"return_rate"`           // Percentage
	ActiveCarriers      int64                `json:"active_carriers"`
	ShipmentsByStatus   []StatusCount        `json:"shipments_by_status"`
	CarrierPerformance  []CarrierPerformance `json:"carrier_performance"`
}

// FinancialAnalytics represents estimated profit figures
type FinancialAnalytics struct {
	Revenue           decimal.Decimal `json:"revenue"`
	EstimatedCOGS     decimal.Decimal `json:"estimated_cogs"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	OperatingExpenses decimal.Decimal `json:"operating_expenses"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	ProfitMargin      float64         `json:"profit_margin"` // Percentage
	ExpenseBreakdown  []ExpenseLine   `json:"expense_breakdown"`
}

// Supporting data structures
type MonthlyRevenue struct {
	Month      string          `json:"month"` // YYYY-MM
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

type DailyRevenue struct {
	Date       string          `json:"date"` // YYYY-MM-DD
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

type ProductSales struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	TotalSold int64           `json:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type CategorySales struct {
	Category   string          `json:"category"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
	Percentage float64         `json:"percentage"`
}

type CategoryDistribution struct {
	Category   string          `json:"category"`
	Count      int64           `json:"count"`
	Value      decimal.Decimal `json:"value"`
	Percentage float64         `json:"percentage"`
}

type StockLevelBucket struct {
	Level      string  `json:"level"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ProductValue struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
}

type CustomerSpend struct {
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	OrderCount int64           `json:"order_count"`
}

type StatusCount struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CarrierPerformance struct {
	CarrierID       string  `json:"carrier_id"`
	Name            string  `json:"name"`
	Shipments       int64   `json:"shipments"`
	Delivered       int64   `json:"delivered"`
	OnTimeRate      float64 `json:"on_time_rate"`      // Percentage
	AvgDeliveryTime float64 `json:"avg_delivery_time"` // Days
}

type ExpenseLine struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"` // Of revenue
}

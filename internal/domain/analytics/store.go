// internal/domain/analytics/store.go
package analytics

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/your-org/commerce-analytics/internal/domain/shipment"
)

// UnknownLabel names line items whose product and shipments whose carrier no longer exist
const UnknownLabel = "Unknown"

// Store is the read-only access the report generators need. Every method is a grouped
// aggregation over the record stores; implementations must honour ctx cancellation.
type Store interface {
	SalesStore
	InventoryStore
	CustomerStore
	ShipmentStore
}

// SalesStore aggregates completed orders
type SalesStore interface {
	// OrderTotals sums completed orders created in w
	OrderTotals(ctx context.Context, w Window) (OrderTotals, error)
	// RevenueByMonth groups completed orders in w by UTC year and month
	RevenueByMonth(ctx context.Context, w Window) ([]PeriodRevenue, error)
	// RevenueByDay groups completed orders in w by UTC calendar day
	RevenueByDay(ctx context.Context, w Window) ([]PeriodRevenue, error)
	// TopSellingProducts groups line items by product, ranked by quantity sold
	TopSellingProducts(ctx context.Context, w Window, limit int) ([]ProductSalesRow, error)
	// SalesByCategory groups line items by the current category of their product
	SalesByCategory(ctx context.Context, w Window) ([]CategorySalesRow, error)
}

// InventoryStore aggregates the product catalog
type InventoryStore interface {
	InventoryTotals(ctx context.Context) (InventoryTotals, error)
	StockLevels(ctx context.Context) (StockLevelCounts, error)
	InventoryByCategory(ctx context.Context) ([]CategoryStockRow, error)
	TopValueProducts(ctx context.Context, limit int) ([]ProductValueRow, error)
}

// CustomerStore aggregates users and their all-time completed orders
type CustomerStore interface {
	CountCustomers(ctx context.Context) (int64, error)
	CountNewCustomers(ctx context.Context, w Window) (int64, error)
	CustomerTotals(ctx context.Context) (CustomerTotals, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerSpendRow, error)
}

// ShipmentStore aggregates shipments and carriers
type ShipmentStore interface {
	ShipmentsByStatus(ctx context.Context, w Window) ([]ShipmentStatusRow, error)
	CarrierPerformance(ctx context.Context, w Window) ([]CarrierShipmentRow, error)
	CountActiveCarriers(ctx context.Context) (int64, error)
}

// OrderTotals is the sum over a set of completed orders
type OrderTotals struct {
	Orders   int64
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
}

// Revenue returns subtotal + tax + shipping
func (t OrderTotals) Revenue() decimal.Decimal {
	return t.Subtotal.Add(t.Tax).Add(t.Shipping)
}

// PeriodRevenue is one calendar bucket. Day is zero for monthly buckets.
type PeriodRevenue struct {
	Year    int
	Month   int
	Day     int
	Revenue decimal.Decimal
	Orders  int64
}

type ProductSalesRow struct {
	ProductID string
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}

type CategorySalesRow struct {
	Category string
	Revenue  decimal.Decimal
	Orders   int64
}

type InventoryTotals struct {
	Products int64
	Value    decimal.Decimal
}

// StockLevelCounts partitions the catalog by stock level
type StockLevelCounts struct {
	OutOfStock int64
	Low        int64
	Medium     int64
	High       int64
}

type CategoryStockRow struct {
	Category string
	Products int64
	Value    decimal.Decimal
}

type ProductValueRow struct {
	ProductID string
	Name      string
	Category  string
	Quantity  int64
	Price     decimal.Decimal
	Value     decimal.Decimal
}

// CustomerTotals summarises per-customer completed-order aggregation
type CustomerTotals struct {
	Active int64 // customers with at least one completed order
	Repeat int64 // customers with at least two completed orders
	Spent  decimal.Decimal
}

type CustomerSpendRow struct {
	CustomerID string
	Name       string
	Spent      decimal.Decimal
	Orders     int64
}

type ShipmentStatusRow struct {
	Status shipment.Status
	Count  int64
}

// CarrierShipmentRow aggregates the shipments of one carrier. TimedDeliveries counts
// delivered shipments with a delivery timestamp; DeliverySeconds sums their durations.
type CarrierShipmentRow struct {
	CarrierID       string
	Name            string
	Shipments       int64
	Delivered       int64
	TimedDeliveries int64
	DeliverySeconds float64
}

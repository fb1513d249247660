// internal/pkg/export/layout.go
package export

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
)

// sheet is one report section rendered as a stack of tables
type sheet struct {
	Name   string
	Tables []table
}

type table struct {
	Title  string
	Header []string
	Rows   [][]interface{}
}

func metrics(rows ...[]interface{}) table {
	return table{Title: "Summary", Header: []string{"Metric", "Value"}, Rows: rows}
}

func row(values ...interface{}) []interface{} {
	return values
}

// text renders a cell for the text formats
func text(v interface{}) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.StringFixed(2)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// layout flattens a report into the sheets every format renders
func layout(r *analytics.Report) []sheet {
	s, inv, c, ops, fin := r.Sales, r.Inventory, r.Customers, r.Operations, r.Financial

	sales := sheet{Name: "Sales", Tables: []table{
		metrics(
			row("Total Revenue", s.TotalRevenue),
			row("Total Orders", s.TotalOrders),
			row("Average Order Value", s.AverageOrderValue),
			row("Revenue Growth %", s.RevenueGrowth),
			row("Orders Growth %", s.OrdersGrowth),
		),
		{Title: "Monthly Revenue", Header: []string{"Month", "Revenue", "Orders"}},
		{Title: "Daily Revenue", Header: []string{"Date", "Revenue", "Orders"}},
		{Title: "Top Selling Products", Header: []string{"Product ID", "Name", "Units Sold", "Revenue"}},
		{Title: "Sales by Category", Header: []string{"Category", "Revenue", "Orders", "Share %"}},
	}}
	for _, m := range s.MonthlyRevenue {
		sales.Tables[1].Rows = append(sales.Tables[1].Rows, row(m.Month, m.Revenue, m.OrderCount))
	}
	for _, d := range s.DailyRevenue {
		sales.Tables[2].Rows = append(sales.Tables[2].Rows, row(d.Date, d.Revenue, d.OrderCount))
	}
	for _, p := range s.TopSellingProducts {
		sales.Tables[3].Rows = append(sales.Tables[3].Rows, row(p.ProductID, p.Name, p.TotalSold, p.Revenue))
	}
	for _, cat := range s.SalesByCategory {
		sales.Tables[4].Rows = append(sales.Tables[4].Rows, row(cat.Category, cat.Revenue, cat.OrderCount, cat.Percentage))
	}

	inventory := sheet{Name: "Inventory", Tables: []table{
		metrics(
			row("Total Products", inv.TotalProducts),
			row("Inventory Value", inv.TotalInventoryValue),
			row("Low Stock Products", inv.LowStockProducts),
			row("Out of Stock Products", inv.OutOfStockProducts),
			row("Inventory Turnover", inv.InventoryTurnover),
		),
		{Title: "Stock Levels", Header: []string{"Level", "Products", "Share %"}},
		{Title: "Category Distribution", Header: []string{"Category", "Products", "Value", "Share %"}},
		{Title: "Top Value Products", Header: []string{"Product ID", "Name", "Category", "Quantity", "Price", "Value"}},
	}}
	for _, b := range inv.StockLevels {
		inventory.Tables[1].Rows = append(inventory.Tables[1].Rows, row(b.Level, b.Count, b.Percentage))
	}
	for _, d := range inv.CategoryDistribution {
		inventory.Tables[2].Rows = append(inventory.Tables[2].Rows, row(d.Category, d.Count, d.Value, d.Percentage))
	}
	for _, p := range inv.TopValueProducts {
		inventory.Tables[3].Rows = append(inventory.Tables[3].Rows, row(p.ProductID, p.Name, p.Category, p.Quantity, p.Price, p.Value))
	}

	customers := sheet{Name: "Customers", Tables: []table{
		metrics(
			row("Total Customers", c.TotalCustomers),
			row("New Customers", c.NewCustomers),
			row("Active Customers", c.ActiveCustomers),
			row("Customer Growth %", c.CustomerGrowth),
			row("Retention Rate %", c.CustomerRetentionRate),
			row("Average Lifetime Value", c.AverageCustomerLifetimeValue),
		),
		{Title: "Top Customers", Header: []string{"Customer ID", "Name", "Total Spent", "Orders"}},
	}}
	for _, tc := range c.TopCustomers {
		customers.Tables[1].Rows = append(customers.Tables[1].Rows, row(tc.CustomerID, tc.Name, tc.TotalSpent, tc.OrderCount))
	}

	operations := sheet{Name: "Operations", Tables: []table{
		metrics(
			row("Total Shipments", ops.TotalShipments),
			row("On-Time Delivery Rate %", ops.OnTimeDeliveryRate),
			row("Average Delivery Time (days)", ops.AverageDeliveryTime),
			row("Return Rate %", ops.ReturnRate),
			row("Active Carriers", ops.ActiveCarriers),
		),
		{Title: "Shipments by Status", Header: []string{"Status", "Shipments", "Share %"}},
		{Title: "Carrier Performance", Header: []string{"Carrier ID", "Carrier", "Shipments", "Delivered", "On-Time %", "Avg Days"}},
	}}
	for _, st := range ops.ShipmentsByStatus {
		operations.Tables[1].Rows = append(operations.Tables[1].Rows, row(st.Status, st.Count, st.Percentage))
	}
	for _, cp := range ops.CarrierPerformance {
		operations.Tables[2].Rows = append(operations.Tables[2].Rows, row(cp.CarrierID, cp.Name, cp.Shipments, cp.Delivered, cp.OnTimeRate, cp.AvgDeliveryTime))
	}

	financial := sheet{Name: "Financial", Tables: []table{
		metrics(
			row("Revenue", fin.Revenue),
			row("Estimated COGS", fin.EstimatedCOGS),
			row("Gross Profit", fin.GrossProfit),
			row("Operating Expenses", fin.OperatingExpenses),
			row("Net Profit", fin.NetProfit),
			row("Profit Margin %", fin.ProfitMargin),
		),
		{Title: "Expense Breakdown", Header: []string{"Category", "Amount", "Share of Revenue %"}},
	}}
	for _, e := range fin.ExpenseBreakdown {
		financial.Tables[1].Rows = append(financial.Tables[1].Rows, row(e.Category, e.Amount, e.Percentage))
	}

	return []sheet{sales, inventory, customers, operations, financial}
}

// periodLabel renders the report window as dates
func periodLabel(r *analytics.Report) string {
	return r.Period.Start.Format("2006-01-02") + " to " + r.Period.End.Format("2006-01-02")
}

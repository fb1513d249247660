// internal/domain/analytics/sales.go
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// salesAnalytics computes completed-order metrics for w
func (s *Service) salesAnalytics(ctx context.Context, w Window) (*SalesAnalytics, error) {
	var (
		current, previous OrderTotals
		monthly, daily    []PeriodRevenue
		products          []ProductSalesRow
		categories        []CategorySalesRow
	)

	g, gctx := errgroup.WithContext(ctx)
	timeout := s.opts.QueryTimeout
	fetch(g, gctx, timeout, &current, func(ctx context.Context) (OrderTotals, error) {
		return s.store.OrderTotals(ctx, w)
	})
	fetch(g, gctx, timeout, &previous, func(ctx context.Context) (OrderTotals, error) {
		return s.store.OrderTotals(ctx, w.Previous())
	})
	fetch(g, gctx, timeout, &monthly, func(ctx context.Context) ([]PeriodRevenue, error) {
		return s.store.RevenueByMonth(ctx, w)
	})
	fetch(g, gctx, timeout, &daily, func(ctx context.Context) ([]PeriodRevenue, error) {
		return s.store.RevenueByDay(ctx, w.Daily())
	})
	fetch(g, gctx, timeout, &products, func(ctx context.Context) ([]ProductSalesRow, error) {
		return s.store.TopSellingProducts(ctx, w, s.opts.TopN)
	})
	fetch(g, gctx, timeout, &categories, func(ctx context.Context) ([]CategorySalesRow, error) {
		return s.store.SalesByCategory(ctx, w)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	revenue := current.Revenue()
	sales := &SalesAnalytics{
		TotalRevenue:       revenue.Round(2),
		TotalOrders:        current.Orders,
		AverageOrderValue:  average(revenue, current.Orders),
		RevenueGrowth:      s.opts.Growth.Growth(revenue.InexactFloat64(), previous.Revenue().InexactFloat64(), w),
		OrdersGrowth:       s.opts.Growth.Growth(float64(current.Orders), float64(previous.Orders), w),
		MonthlyRevenue:     monthlyRevenue(monthly),
		DailyRevenue:       dailyRevenue(daily),
		TopSellingProducts: topSellingProducts(products, s.opts.TopN),
		SalesByCategory:    []CategorySales{},
	}
	if current.Orders > 0 {
		sales.SalesByCategory = salesByCategory(categories)
	}

	return sales, nil
}

func sortPeriods(rows []PeriodRevenue) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
}

func monthlyRevenue(rows []PeriodRevenue) []MonthlyRevenue {
	sortPeriods(rows)
	out := make([]MonthlyRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, MonthlyRevenue{
			Month:      fmt.Sprintf("%04d-%02d", r.Year, r.Month),
			Revenue:    r.Revenue.Round(2),
			OrderCount: r.Orders,
		})
	}
	return out
}

func dailyRevenue(rows []PeriodRevenue) []DailyRevenue {
	sortPeriods(rows)
	out := make([]DailyRevenue, 0, len(rows))
	for _, r := range rows {
		out = append(out, DailyRevenue{
			Date:       fmt.Sprintf("%04d-%02d-%02d", r.Year, r.Month, r.Day),
			Revenue:    r.Revenue.Round(2),
			OrderCount: r.Orders,
		})
	}
	return out
}

func topSellingProducts(rows []ProductSalesRow, limit int) []ProductSales {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.ProductID < b.ProductID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]ProductSales, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductSales{
			ProductID: r.ProductID,
			Name:      r.Name,
			TotalSold: r.Quantity,
			Revenue:   r.Revenue.Round(2),
		})
	}
	return out
}

// salesByCategory expresses each category's share of the summed line revenue
func salesByCategory(rows []CategorySalesRow) []CategorySales {
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Revenue.Cmp(rows[j].Revenue); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Revenue)
	}

	out := make([]CategorySales, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategorySales{
			Category:   r.Category,
			Revenue:    r.Revenue.Round(2),
			OrderCount: r.Orders,
			Percentage: percentOf(r.Revenue, total),
		})
	}
	return out
}

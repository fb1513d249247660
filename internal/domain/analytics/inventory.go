// internal/domain/analytics/inventory.go
package analytics

import (
	"context"
	"sort"

	"github.com/your-org/commerce-analytics/internal/domain/product"
	"golang.org/x/sync/errgroup"
)

// inventoryAnalytics snapshots the whole catalog. Only the turnover estimate depends on
// the window: it uses the twelve months of sales ending at w.End.
func (s *Service) inventoryAnalytics(ctx context.Context, w Window) (*InventoryAnalytics, error) {
	var (
		totals     InventoryTotals
		levels     StockLevelCounts
		categories []CategoryStockRow
		products   []ProductValueRow
		yearSales  OrderTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	timeout := s.opts.QueryTimeout
	fetch(g, gctx, timeout, &totals, s.store.InventoryTotals)
	fetch(g, gctx, timeout, &levels, s.store.StockLevels)
	fetch(g, gctx, timeout, &categories, s.store.InventoryByCategory)
	fetch(g, gctx, timeout, &products, func(ctx context.Context) ([]ProductValueRow, error) {
		return s.store.TopValueProducts(ctx, s.opts.TopN)
	})
	fetch(g, gctx, timeout, &yearSales, func(ctx context.Context) (OrderTotals, error) {
		return s.store.OrderTotals(ctx, w.TrailingYear())
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inventory := &InventoryAnalytics{
		TotalProducts:        totals.Products,
		TotalInventoryValue:  totals.Value.Round(2),
		LowStockProducts:     levels.Low,
		OutOfStockProducts:   levels.OutOfStock,
		CategoryDistribution: categoryDistribution(categories, totals.Products),
		StockLevels:          stockLevels(levels, totals.Products),
		TopValueProducts:     topValueProducts(products, s.opts.TopN),
	}

	// Turnover = estimated cost of goods sold over the year / value currently on hand
	if totals.Value.IsPositive() {
		cogs := yearSales.Subtotal.Mul(s.opts.COGSRatio)
		inventory.InventoryTurnover = round2(cogs.Div(totals.Value).InexactFloat64())
	}

	return inventory, nil
}

func categoryDistribution(rows []CategoryStockRow, totalProducts int64) []CategoryDistribution {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Products != rows[j].Products {
			return rows[i].Products > rows[j].Products
		}
		return rows[i].Category < rows[j].Category
	})

	out := make([]CategoryDistribution, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryDistribution{
			Category:   r.Category,
			Count:      r.Products,
			Value:      r.Value.Round(2),
			Percentage: percent(r.Products, totalProducts),
		})
	}
	return out
}

// stockLevels always emits the four levels in order so the buckets partition the catalog
func stockLevels(c StockLevelCounts, totalProducts int64) []StockLevelBucket {
	counts := map[product.StockLevel]int64{
		product.StockLevelOut:    c.OutOfStock,
		product.StockLevelLow:    c.Low,
		product.StockLevelMedium: c.Medium,
		product.StockLevelHigh:   c.High,
	}

	out := make([]StockLevelBucket, 0, len(product.StockLevels))
	for _, level := range product.StockLevels {
		out = append(out, StockLevelBucket{
			Level:      string(level),
			Count:      counts[level],
			Percentage: percent(counts[level], totalProducts),
		})
	}
	return out
}

func topValueProducts(rows []ProductValueRow, limit int) []ProductValue {
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Value.Cmp(rows[j].Value); c != 0 {
			return c > 0
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]ProductValue, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductValue{
			ProductID: r.ProductID,
			Name:      r.Name,
			Category:  r.Category,
			Quantity:  r.Quantity,
			Price:     r.Price.Round(2),
			Value:     r.Value.Round(2),
		})
	}
	return out
}

// internal/domain/analytics/customer.go
package analytics

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// customerAnalytics counts new customers inside w; lifetime value, activity and top
// spenders are computed over all-time completed orders.
func (s *Service) customerAnalytics(ctx context.Context, w Window) (*CustomerAnalytics, error) {
	var (
		total, fresh, previous int64
		totals                 CustomerTotals
		spenders               []CustomerSpendRow
	)

	g, gctx := errgroup.WithContext(ctx)
	timeout := s.opts.QueryTimeout
	fetch(g, gctx, timeout, &total, s.store.CountCustomers)
	fetch(g, gctx, timeout, &fresh, func(ctx context.Context) (int64, error) {
		return s.store.CountNewCustomers(ctx, w)
	})
	fetch(g, gctx, timeout, &previous, func(ctx context.Context) (int64, error) {
		return s.store.CountNewCustomers(ctx, w.Previous())
	})
	fetch(g, gctx, timeout, &totals, s.store.CustomerTotals)
	fetch(g, gctx, timeout, &spenders, func(ctx context.Context) ([]CustomerSpendRow, error) {
		return s.store.TopCustomers(ctx, s.opts.TopN)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CustomerAnalytics{
		TotalCustomers:               total,
		NewCustomers:                 fresh,
		ActiveCustomers:              totals.Active,
		CustomerGrowth:               s.opts.Growth.Growth(float64(fresh), float64(previous), w),
		CustomerRetentionRate:        percent(totals.Repeat, totals.Active),
		AverageCustomerLifetimeValue: average(totals.Spent, totals.Active),
		TopCustomers:                 topCustomers(spenders, s.opts.TopN),
	}, nil
}

func topCustomers(rows []CustomerSpendRow, limit int) []CustomerSpend {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := a.Spent.Cmp(b.Spent); c != 0 {
			return c > 0
		}
		if a.Orders != b.Orders {
			return a.Orders > b.Orders
		}
		return a.CustomerID < b.CustomerID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]CustomerSpend, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerSpend{
			CustomerID: r.CustomerID,
			Name:       r.Name,
			TotalSpent: r.Spent.Round(2),
			OrderCount: r.Orders,
		})
	}
	return out
}

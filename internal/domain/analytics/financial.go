// internal/domain/analytics/financial.go
package analytics

import (
	"context"
)

// Expense breakdown categories
const (
	ExpenseCOGS      = "Cost of Goods Sold"
	ExpenseOperating = "Operating Expenses"
	ExpenseShipping  = "Shipping"
)

// financialAnalytics estimates profit for completed orders in w from the configured
// cost ratios.
func (s *Service) financialAnalytics(ctx context.Context, w Window) (*FinancialAnalytics, error) {
	qctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	totals, err := s.store.OrderTotals(qctx, w)
	if err != nil {
		return nil, err
	}

	revenue := totals.Revenue()
	cogs := totals.Subtotal.Mul(s.opts.COGSRatio)
	opex := revenue.Mul(s.opts.OperatingExpenseRatio)
	gross := revenue.Sub(cogs)
	net := gross.Sub(opex)

	return &FinancialAnalytics{
		Revenue:           revenue.Round(2),
		EstimatedCOGS:     cogs.Round(2),
		GrossProfit:       gross.Round(2),
		OperatingExpenses: opex.Round(2),
		NetProfit:         net.Round(2),
		ProfitMargin:      percentOf(net, revenue),
		ExpenseBreakdown: []ExpenseLine{
			{Category: ExpenseCOGS, Amount: cogs.Round(2), Percentage: percentOf(cogs, revenue)},
			{Category: ExpenseOperating, Amount: opex.Round(2), Percentage: percentOf(opex, revenue)},
			{Category: ExpenseShipping, Amount: totals.Shipping.Round(2), Percentage: percentOf(totals.Shipping, revenue)},
		},
	}, nil
}

// internal/domain/analytics/calc.go
package analytics

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

// roundFloat rounds a float to specified decimal places
func roundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func round2(val float64) float64 {
	return roundFloat(val, 2)
}

// percent returns part/total*100, or 0 when total is not positive
func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

// percentOf is percent for money amounts
func percentOf(part, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return round2(part.Div(total).Mul(hundred).InexactFloat64())
}

// average divides a money sum by a count, 0 when count is not positive
func average(sum decimal.Decimal, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(count)).Round(2)
}

// fetch runs query on the group under its own timeout and stores the result in dst.
// A query that outlives the timeout fails the group.
func fetch[T any](g *errgroup.Group, ctx context.Context, timeout time.Duration, dst *T, query func(ctx context.Context) (T, error)) {
	g.Go(func() error {
		qctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		v, err := query(qctx)
		if err != nil {
			return err
		}
		if err := qctx.Err(); err != nil {
			return err
		}
		*dst = v
		return nil
	})
}

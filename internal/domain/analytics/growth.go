// internal/domain/analytics/growth.go
package analytics

import (
	"math"
)

// GrowthStrategy derives a period-over-period growth percentage from the value in the
// report window and the value in the preceding window of equal length.
type GrowthStrategy interface {
	Growth(current, previous float64, w Window) float64
}

// SimpleGrowth is the plain percentage change
type SimpleGrowth struct{}

func (SimpleGrowth) Growth(current, previous float64, _ Window) float64 {
	if previous <= 0 {
		return 0
	}
	return round2((current - previous) / previous * 100)
}

// CompoundGrowth spreads the change over the window length and reports the
// equivalent compound monthly rate. Windows of a month or less use SimpleGrowth.
type CompoundGrowth struct{}

func (CompoundGrowth) Growth(current, previous float64, w Window) float64 {
	months := w.Months()
	if months <= 1 {
		return SimpleGrowth{}.Growth(current, previous, w)
	}
	if previous <= 0 || current < 0 {
		return 0
	}
	rate := math.Pow(current/previous, 1/months) - 1
	return round2(rate * 100)
}

// GrowthStrategyFor maps a configured mode onto its strategy
func GrowthStrategyFor(mode string) GrowthStrategy {
	if mode == "compound" {
		return CompoundGrowth{}
	}
	return SimpleGrowth{}
}

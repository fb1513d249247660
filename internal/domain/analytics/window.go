// internal/domain/analytics/window.go
package analytics

import (
	"time"
)

// DailyTrendDays is the length of the daily revenue trend ending at the window end
const DailyTrendDays = 30

// Window is an inclusive [Start, End] time range in UTC
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a window, normalizing both bounds to UTC
func NewWindow(start, end time.Time) (Window, error) {
	if start.After(end) {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// DefaultWindow returns the trailing twelve-month window: from the first day of the month
// eleven months before now until now.
func DefaultWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month()-11, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: now}
}

// ResolveWindow fills unset bounds from DefaultWindow
func ResolveWindow(start, end *time.Time, now time.Time) (Window, error) {
	def := DefaultWindow(now)
	s, e := def.Start, def.End
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	return NewWindow(s, e)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside the window, both ends inclusive
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Previous returns the window of equal length ending just before this one starts
func (w Window) Previous() Window {
	end := w.Start.Add(-time.Millisecond)
	return Window{Start: end.Add(-w.Duration()), End: end}
}

// Daily returns the trailing daily-trend window ending at the window end
func (w Window) Daily() Window {
	return Window{Start: w.End.AddDate(0, 0, -DailyTrendDays), End: w.End}
}

// TrailingYear returns the twelve months ending at the window end
func (w Window) TrailingYear() Window {
	return Window{Start: w.End.AddDate(-1, 0, 0), End: w.End}
}

// Months returns the window length in average calendar months
func (w Window) Months() float64 {
	const hoursPerMonth = 365.25 / 12 * 24
	return w.Duration().Hours() / hoursPerMonth
}

// CacheKey identifies the window in the report cache
func (w Window) CacheKey() string {
	return w.Start.Format(time.RFC3339Nano) + "_" + w.End.Format(time.RFC3339Nano)
}

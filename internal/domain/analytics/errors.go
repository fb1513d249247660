// internal/domain/analytics/errors.go
package analytics

import "errors"

var (
	// ErrAnalyticsUnavailable is returned whenever any underlying query fails. No partial
	// report accompanies it.
	ErrAnalyticsUnavailable = errors.New("failed to fetch analytics data")
	ErrInvalidWindow        = errors.New("invalid report window: start is after end")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
)

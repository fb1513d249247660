// internal/domain/analytics/metrics.go
package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_report_duration_seconds",
		Help:    "Time taken to generate an analytics report section",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})

	reportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_report_failures_total",
		Help: "Number of analytics report sections that failed to generate",
	}, []string{"report"})
)

// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/commerce-analytics/internal/config"
	"golang.org/x/sync/errgroup"
)

// Report section names, used in logs and metric labels
const (
	SectionSales      = "sales"
	SectionInventory  = "inventory"
	SectionCustomers  = "customers"
	SectionOperations = "operations"
	SectionFinancial  = "financial"
)

// Options tunes the report generators
type Options struct {
	TopN                  int
	QueryTimeout          time.Duration
	COGSRatio             decimal.Decimal
	OperatingExpenseRatio decimal.Decimal
	Growth                GrowthStrategy
	Now                   func() time.Time
}

// DefaultOptions returns the stock tuning: top 10, 10s per query, 60% COGS, 25% operating
// expenses, simple growth.
func DefaultOptions() Options {
	return Options{
		TopN:                  10,
		QueryTimeout:          10 * time.Second,
		COGSRatio:             decimal.NewFromFloat(0.6),
		OperatingExpenseRatio: decimal.NewFromFloat(0.25),
		Growth:                SimpleGrowth{},
		Now:                   time.Now,
	}
}

// OptionsFromConfig builds Options from the analytics configuration
func OptionsFromConfig(cfg config.AnalyticsConfig) Options {
	opts := DefaultOptions()
	if cfg.TopN > 0 {
		opts.TopN = cfg.TopN
	}
	if cfg.QueryTimeout > 0 {
		opts.QueryTimeout = cfg.QueryTimeout
	}
	opts.COGSRatio = decimal.NewFromFloat(cfg.COGSRatio)
	opts.OperatingExpenseRatio = decimal.NewFromFloat(cfg.OperatingExpenseRatio)
	opts.Growth = GrowthStrategyFor(cfg.GrowthMode)
	return opts
}

// ReportCache stores serialized reports by key
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Service handles analytics business logic
type Service struct {
	store  Store
	opts   Options
	logger *logrus.Logger

	mu          sync.RWMutex
	serializers map[Format]Serializer
	cache       ReportCache
	cacheTTL    time.Duration
}

// NewService creates a new analytics service
func NewService(store Store, opts Options, logger *logrus.Logger) *Service {
	def := DefaultOptions()
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = def.QueryTimeout
	}
	if opts.Growth == nil {
		opts.Growth = def.Growth
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Service{
		store:       store,
		opts:        opts,
		logger:      logger,
		serializers: make(map[Format]Serializer),
	}
}

// UseCache enables the report cache. A non-positive ttl disables it.
func (s *Service) UseCache(cache ReportCache, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl <= 0 {
		cache = nil
	}
	s.cache = cache
	s.cacheTTL = ttl
}

// ResolveWindow fills unset bounds with the default trailing twelve-month window
func (s *Service) ResolveWindow(start, end *time.Time) (Window, error) {
	return ResolveWindow(start, end, s.opts.Now())
}

// GenerateReport runs all five generators concurrently for the window and merges them.
// Any failure yields ErrAnalyticsUnavailable and no report.
func (s *Service) GenerateReport(ctx context.Context, start, end *time.Time) (*Report, error) {
	w, err := s.ResolveWindow(start, end)
	if err != nil {
		return nil, err
	}

	cache, ttl := s.reportCache()
	var key string
	if cache != nil {
		key = reportCacheKey(w, start == nil || end == nil, ttl)
		if cached, ok := s.cachedReport(ctx, cache, key); ok {
			return cached, nil
		}
	}

	report := &Report{Period: w}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sales, err := instrument(s, gctx, SectionSales, w, s.salesAnalytics)
		if err == nil {
			report.Sales = *sales
		}
		return err
	})
	g.Go(func() error {
		inventory, err := instrument(s, gctx, SectionInventory, w, s.inventoryAnalytics)
		if err == nil {
			report.Inventory = *inventory
		}
		return err
	})
	g.Go(func() error {
		customers, err := instrument(s, gctx, SectionCustomers, w, s.customerAnalytics)
		if err == nil {
			report.Customers = *customers
		}
		return err
	})
	g.Go(func() error {
		operations, err := instrument(s, gctx, SectionOperations, w, s.operationsAnalytics)
		if err == nil {
			report.Operations = *operations
		}
		return err
	})
	g.Go(func() error {
		financial, err := instrument(s, gctx, SectionFinancial, w, s.financialAnalytics)
		if err == nil {
			report.Financial = *financial
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, unavailable(err)
	}

	if cache != nil {
		s.storeReport(ctx, cache, key, ttl, report)
	}
	return report, nil
}

// SalesReport generates only the order metrics section
func (s *Service) SalesReport(ctx context.Context, w Window) (*SalesAnalytics, error) {
	return section(s, ctx, SectionSales, w, s.salesAnalytics)
}

// InventoryReport generates only the catalog snapshot
func (s *Service) InventoryReport(ctx context.Context, w Window) (*InventoryAnalytics, error) {
	return section(s, ctx, SectionInventory, w, s.inventoryAnalytics)
}

// CustomerReport generates only the customer section
func (s *Service) CustomerReport(ctx context.Context, w Window) (*CustomerAnalytics, error) {
	return section(s, ctx, SectionCustomers, w, s.customerAnalytics)
}

// OperationsReport generates only the shipment section
func (s *Service) OperationsReport(ctx context.Context, w Window) (*OperationalAnalytics, error) {
	return section(s, ctx, SectionOperations, w, s.operationsAnalytics)
}

// FinancialReport generates only the profit estimate
func (s *Service) FinancialReport(ctx context.Context, w Window) (*FinancialAnalytics, error) {
	return section(s, ctx, SectionFinancial, w, s.financialAnalytics)
}

func section[T any](s *Service, ctx context.Context, name string, w Window, gen func(context.Context, Window) (*T, error)) (*T, error) {
	out, err := instrument(s, ctx, name, w, gen)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

// instrument times a generator and logs its failure
func instrument[T any](s *Service, ctx context.Context, name string, w Window, gen func(context.Context, Window) (*T, error)) (*T, error) {
	started := time.Now()
	out, err := gen(ctx, w)
	elapsed := time.Since(started)
	reportDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	fields := logrus.Fields{
		"report":       name,
		"window_start": w.Start.Format(time.RFC3339),
		"window_end":   w.End.Format(time.RFC3339),
	}
	if err != nil {
		reportFailures.WithLabelValues(name).Inc()
		s.logger.WithError(err).WithFields(fields).Error("Analytics report generation failed")
		return nil, err
	}

	s.logger.WithFields(fields).WithField("duration", elapsed.String()).Debug("Analytics report generated")
	return out, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrAnalyticsUnavailable, err)
}

// reportCacheKey names the cache entry for w. A window with a defaulted bound ends at the
// current time, so its end is bucketed by ttl and repeated calls share one entry.
func reportCacheKey(w Window, open bool, ttl time.Duration) string {
	if open && ttl > 0 {
		w.End = w.End.Truncate(ttl)
	}
	return "report:" + w.CacheKey()
}

func (s *Service) reportCache() (ReportCache, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache, s.cacheTTL
}

func (s *Service) cachedReport(ctx context.Context, cache ReportCache, key string) (*Report, bool) {
	data, ok, err := cache.Get(ctx, key)
	if err != nil {
		s.logger.WithError(err).Warn("Report cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		s.logger.WithError(err).Warn("Discarding undecodable cached report")
		return nil, false
	}
	return &report, true
}

func (s *Service) storeReport(ctx context.Context, cache ReportCache, key string, ttl time.Duration, report *Report) {
	data, err := json.Marshal(report)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode report for cache")
		return
	}
	if err := cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.WithError(err).Warn("Report cache write failed")
	}
}

// Format is an export file format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// ParseFormat validates an export format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatPDF, FormatExcel:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Serializer renders a report into a document
type Serializer interface {
	Serialize(report *Report) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered report ready for download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RegisterSerializer installs the serializer used for format
func (s *Service) RegisterSerializer(format Format, serializer Serializer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serializers[format] = serializer
}

// ExportReport regenerates the default-window report and renders it in format
func (s *Service) ExportReport(ctx context.Context, format string) (*ExportFile, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	serializer, ok := s.serializers[f]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no serializer registered for %s", ErrUnsupportedFormat, f)
	}

	report, err := s.GenerateReport(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	data, err := serializer.Serialize(report)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", f, err)
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("analytics-report-%s.%s", report.Period.End.Format("2006-01-02"), serializer.Extension()),
		ContentType: serializer.ContentType(),
		Data:        data,
	}, nil
}

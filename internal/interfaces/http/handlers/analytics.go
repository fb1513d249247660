// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
)

const dateLayout = "2006-01-02"

// AnalyticsHandler handles analytics endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	logger           *logrus.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *analytics.Service, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: svc,
		logger:           logger,
	}
}

// GetReport handles GET /analytics/report
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.GenerateReport(c.Request.Context(), start, end)
	if err != nil {
		h.fail(c, err, "Failed to generate analytics report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Analytics report generated successfully",
		"data":    report,
	})
}

// GetSales handles GET /analytics/sales
func (h *AnalyticsHandler) GetSales(c *gin.Context) {
	h.section(c, "Sales analytics", func(ctx context.Context, w analytics.Window) (interface{}, error) {
		return h.analyticsService.SalesReport(ctx, w)
	})
}

// GetInventory handles GET /analytics/inventory
func (h *AnalyticsHandler) GetInventory(c *gin.Context) {
	h.section(c, "Inventory analytics", func(ctx context.Context, w analytics.Window) (interface{}, error) {
		return h.analyticsService.InventoryReport(ctx, w)
	})
}

// GetCustomers handles GET /analytics/customers
func (h *AnalyticsHandler) GetCustomers(c *gin.Context) {
	h.section(c, "Customer analytics", func(ctx context.Context, w analytics.Window) (interface{}, error) {
		return h.analyticsService.CustomerReport(ctx, w)
	})
}

// GetOperations handles GET /analytics/operations
func (h *AnalyticsHandler) GetOperations(c *gin.Context) {
	h.section(c, "Operations analytics", func(ctx context.Context, w analytics.Window) (interface{}, error) {
		return h.analyticsService.OperationsReport(ctx, w)
	})
}

// GetFinancial handles GET /analytics/financial
func (h *AnalyticsHandler) GetFinancial(c *gin.Context) {
	h.section(c, "Financial analytics", func(ctx context.Context, w analytics.Window) (interface{}, error) {
		return h.analyticsService.FinancialReport(ctx, w)
	})
}

// ExportReport handles GET /analytics/export?format=csv|pdf|excel
func (h *AnalyticsHandler) ExportReport(c *gin.Context) {
	format := c.Query("format")
	if format == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "format is required (csv, pdf or excel)",
		})
		return
	}

	file, err := h.analyticsService.ExportReport(c.Request.Context(), format)
	if err != nil {
		h.fail(c, err, "Failed to export analytics report")
		return
	}

	// Set headers for download
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Content-Length", strconv.Itoa(len(file.Data)))

	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *AnalyticsHandler) section(c *gin.Context, name string, gen func(context.Context, analytics.Window) (interface{}, error)) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}

	w, err := h.analyticsService.ResolveWindow(start, end)
	if err != nil {
		h.fail(c, err, "Failed to retrieve "+name)
		return
	}

	data, err := gen(c.Request.Context(), w)
	if err != nil {
		h.fail(c, err, "Failed to retrieve "+name)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": name + " retrieved successfully",
		"period":  w,
		"data":    data,
	})
}

// dateRange parses the optional start and end query parameters, writing a 400 on failure
func (h *AnalyticsHandler) dateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	start, err := parseDate(c.Query("start"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid start date, expected YYYY-MM-DD or RFC3339",
		})
		return nil, nil, false
	}

	end, err := parseDate(c.Query("end"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid end date, expected YYYY-MM-DD or RFC3339",
		})
		return nil, nil, false
	}

	return start, end, true
}

// parseDate accepts a calendar date or an RFC3339 timestamp. A calendar end date covers
// the whole UTC day.
func parseDate(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.ParseInLocation(dateLayout, value, time.UTC); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// fail maps engine errors onto HTTP responses
func (h *AnalyticsHandler) fail(c *gin.Context, err error, message string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, analytics.ErrInvalidWindow), errors.Is(err, analytics.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, analytics.ErrAnalyticsUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": analytics.ErrAnalyticsUnavailable.Error(),
		})
	default:
		h.logger.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": message,
		})
	}
}

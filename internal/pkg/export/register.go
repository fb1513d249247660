// internal/pkg/export/register.go
package export

import (
	"github.com/your-org/commerce-analytics/internal/config"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
)

// Register installs the csv, excel and pdf serializers on the analytics service
func Register(svc *analytics.Service, cfg config.ExportConfig) {
	svc.RegisterSerializer(analytics.FormatCSV, CSVSerializer{})
	svc.RegisterSerializer(analytics.FormatExcel, ExcelSerializer{})
	svc.RegisterSerializer(analytics.FormatPDF, NewPDFSerializer(cfg.CompanyName, cfg.PDFDpi))
}

// internal/pkg/export/pdf.go
package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
)

// PDFSerializer renders the report to HTML and converts it with wkhtmltopdf
type PDFSerializer struct {
	CompanyName string
	Dpi         uint
}

// NewPDFSerializer creates a PDF serializer with the given letterhead
func NewPDFSerializer(companyName string, dpi uint) *PDFSerializer {
	if dpi == 0 {
		dpi = 300
	}
	return &PDFSerializer{CompanyName: companyName, Dpi: dpi}
}

func (*PDFSerializer) ContentType() string { return "application/pdf" }
func (*PDFSerializer) Extension() string   { return "pdf" }

// Serialize renders the report as a PDF document
func (p *PDFSerializer) Serialize(report *analytics.Report) ([]byte, error) {
	htmlContent, err := p.renderHTML(report)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(p.Dpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationLandscape)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Title.Set("Analytics Report " + periodLabel(report))

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page] / [topage]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}

type reportPage struct {
	CompanyName string
	Period      string
	Sheets      []sheet
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"cell": text,
}).Parse(reportHTML))

func (p *PDFSerializer) renderHTML(report *analytics.Report) (string, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, reportPage{
		CompanyName: p.CompanyName,
		Period:      periodLabel(report),
		Sheets:      layout(report),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// Report HTML template
const reportHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Analytics Report {{.Period}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .report-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .section {
            page-break-inside: avoid;
            margin-bottom: 30px;
        }
        .section-title {
            font-size: 20px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .table-title {
            font-size: 14px;
            font-weight: bold;
            margin: 15px 0 5px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th, td {
            border: 1px solid #ddd;
            padding: 6px 8px;
            text-align: left;
            font-size: 12px;
        }
        th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .empty {
            color: #666;
            font-style: italic;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="report-title">{{.CompanyName}} Analytics Report</div>
        <div>Period: {{.Period}}</div>
    </div>
    {{range .Sheets}}
    <div class="section">
        <div class="section-title">{{.Name}}</div>
        {{range .Tables}}
        <div class="table-title">{{.Title}}</div>
        {{if .Rows}}
        <table>
            <tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
            {{range .Rows}}<tr>{{range .}}<td>{{cell .}}</td>{{end}}</tr>
            {{end}}
        </table>
        {{else}}
        <div class="empty">No data for this period</div>
        {{end}}
        {{end}}
    </div>
    {{end}}
</body>
</html>
`

// internal/pkg/export/excel.go
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
)

// ExcelSerializer writes one worksheet per report section
type ExcelSerializer struct{}

func (ExcelSerializer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (ExcelSerializer) Extension() string { return "xlsx" }

// Serialize renders the report as an xlsx workbook
func (ExcelSerializer) Serialize(report *analytics.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	for i, sh := range layout(report) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %s: %w", sh.Name, err)
		}

		if err := writeSheet(f, sh, periodLabel(report), titleStyle, headerStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh sheet, period string, titleStyle, headerStyle int) error {
	r := 1
	put := func(values []interface{}, style int) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sh.Name, r, err)
		}
		if style != 0 && len(values) > 0 {
			last, err := excelize.CoordinatesToCellName(len(values), r)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sh.Name, cell, last, style); err != nil {
				return err
			}
		}
		r++
		return nil
	}

	if err := put([]interface{}{sh.Name + " Analytics", period}, titleStyle); err != nil {
		return err
	}
	r++

	for _, t := range sh.Tables {
		if err := put([]interface{}{t.Title}, titleStyle); err != nil {
			return err
		}
		header := make([]interface{}, len(t.Header))
		for i, h := range t.Header {
			header[i] = h
		}
		if err := put(header, headerStyle); err != nil {
			return err
		}
		for _, values := range t.Rows {
			cells := make([]interface{}, len(values))
			for i, v := range values {
				cells[i] = cellValue(v)
			}
			if err := put(cells, 0); err != nil {
				return err
			}
		}
		r++
	}

	return f.SetColWidth(sh.Name, "A", "F", 22)
}

// cellValue keeps numbers numeric in the workbook
func cellValue(v interface{}) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		return d.Round(2).InexactFloat64()
	}
	return v
}

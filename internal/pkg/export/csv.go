// internal/pkg/export/csv.go
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/your-org/commerce-analytics/internal/domain/analytics"
)

// CSVSerializer writes every report table into one CSV document. Each table is
// preceded by a "section / table" title row and followed by a blank row.
type CSVSerializer struct{}

func (CSVSerializer) ContentType() string { return "text/csv" }
func (CSVSerializer) Extension() string   { return "csv" }

// Serialize renders the report as CSV
func (CSVSerializer) Serialize(report *analytics.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"Analytics Report", periodLabel(report)}, {}}
	for _, sh := range layout(report) {
		for _, t := range sh.Tables {
			records = append(records, []string{sh.Name + " / " + t.Title}, t.Header)
			for _, r := range t.Rows {
				line := make([]string, len(r))
				for i, v := range r {
					line[i] = text(v)
				}
				records = append(records, line)
			}
			records = append(records, []string{})
		}
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

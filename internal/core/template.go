package core

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// template.go generates starter sheets carrying the recognized column
// headers, so users who have no ERP export at hand can fill inventory
// data in a layout the importer accepts as-is.

const templateSheetName = "Estoque"

// templateSampleRows seed the generated sheets with realistic entries,
// including a zero quantity so the low-stock marking is discoverable.
var templateSampleRows = [][]string{
	{"AB-123", "Parafuso M4 x 20mm", "Prateleira 3", "150"},
	{"CD-456", "Porca sextavada M4", "Prateleira 3", "80"},
	{"7891234567890", "Arruela lisa 4mm", "Caixa 12", "0"},
}

// TemplateHeaders returns the canonical column headers in sheet order.
func TemplateHeaders() []string {
	headers := make([]string, 0, len(recordFields))
	for _, spec := range recordFields {
		headers = append(headers, spec.Header)
	}
	return headers
}

// TemplateCSV renders the template as a semicolon-delimited CSV, the
// dialect Excel produces on pt-BR systems.
func TemplateCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	w.Write(TemplateHeaders())
	for _, row := range templateSampleRows {
		w.Write(row)
	}
	w.Flush()

	return buf.Bytes()
}

// TemplateXLSX renders the template as an Excel workbook with the header
// row pinned and columns wide enough for typical entries.
func TemplateXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	index, err := f.NewSheet(templateSheetName)
	if err != nil {
		return nil, fmt.Errorf("create worksheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, fmt.Errorf("drop default worksheet: %w", err)
	}

	for i, header := range TemplateHeaders() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(templateSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for r, row := range templateSampleRows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(templateSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	if err := f.SetColWidth(templateSheetName, "A", "D", 24); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetPanes(templateSheetName, &excelize.Panes{
		Freeze: true, Split: false, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
)

// ExcelExporter writes a document as a single-sheet workbook
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new XLSX exporter
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

func (e *ExcelExporter) Format() port.ExportFormat {
	return port.ExportXLSX
}

// Export writes header fields in columns A/B, the item table from row 12, then totals
func (e *ExcelExporter) Export(ctx context.Context, p *port.ExportPayload) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := p.DocumentNumber
	if sheet == "" {
		sheet = "Document"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	due := ""
	if p.DueDate != nil {
		due = p.DueDate.Format("2006-01-02")
	}

	header := [][2]interface{}{
		{"Company", p.CompanyName},
		{"Document", p.DocumentType},
		{"Number", p.DocumentNumber},
		{"Status", p.Status},
		{"Issue Date", p.IssueDate.Format("2006-01-02")},
		{"Due Date", due},
		{"Client", p.ClientName},
		{"Client Email", p.ClientEmail},
		{"Client Phone", p.ClientPhone},
		{"Client Address", p.ClientAddress},
	}
	for i, kv := range header {
		row := i + 1
		e.setCell(f, sheet, fmt.Sprintf("A%d", row), kv[0])
		e.setCell(f, sheet, fmt.Sprintf("B%d", row), kv[1])
	}

	const tableStart = 12
	for col, title := range []string{"Description", "Quantity", "Unit Price", "Amount"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, tableStart)
		e.setCell(f, sheet, cell, title)
	}

	row := tableStart + 1
	for _, item := range p.Items {
		e.setCell(f, sheet, fmt.Sprintf("A%d", row), item.Description)
		e.setCell(f, sheet, fmt.Sprintf("B%d", row), item.Quantity)
		e.setCell(f, sheet, fmt.Sprintf("C%d", row), item.UnitPrice)
		e.setCell(f, sheet, fmt.Sprintf("D%d", row), item.Amount)
		row++
	}

	row++
	for _, kv := range [][2]interface{}{
		{"Subtotal", p.Subtotal},
		{"Tax Rate (%)", p.TaxRate},
		{"Tax", p.TaxAmount},
		{"Discount", p.DiscountAmount},
		{"Total", p.Total},
	} {
		e.setCell(f, sheet, fmt.Sprintf("C%d", row), kv[0])
		e.setCell(f, sheet, fmt.Sprintf("D%d", row), kv[1])
		row++
	}

	if p.Notes != "" {
		row++
		e.setCell(f, sheet, fmt.Sprintf("A%d", row), "Notes")
		e.setCell(f, sheet, fmt.Sprintf("B%d", row), p.Notes)
	}
	if p.Terms != "" {
		row++
		e.setCell(f, sheet, fmt.Sprintf("A%d", row), "Terms")
		e.setCell(f, sheet, fmt.Sprintf("B%d", row), p.Terms)
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		e.logger.Warn("Failed to set column width", zap.Error(err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

var _ port.DocumentExporter = (*ExcelExporter)(nil)

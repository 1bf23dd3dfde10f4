package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/techvibe/backoffice/internal/application/port"
)

const qrImageName = "verify-qr"

// PDFExporter renders invoices and quotations as A4 PDFs
type PDFExporter struct {
	logger *zap.Logger
}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter(logger *zap.Logger) *PDFExporter {
	return &PDFExporter{logger: logger}
}

func (e *PDFExporter) Format() port.ExportFormat {
	return port.ExportPDF
}

// Export lays out the header, client block, item table and totals.
// A QR code of the verify URL is added when the payload carries one.
func (e *PDFExporter) Export(ctx context.Context, p *port.ExportPayload) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	titleCaser := cases.Title(language.Und)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle(fmt.Sprintf("%s %s", titleCaser.String(p.DocumentType), p.DocumentNumber), true)
	pdf.AddPage()

	// --- Issuer ---
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(130, 8, tr(p.CompanyName))
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(60, 8, strings.ToUpper(p.DocumentType), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range []string{p.CompanyAddress, p.CompanyEmail, p.CompanyPhone} {
		if line != "" {
			pdf.Cell(130, 5, tr(line))
			pdf.Ln(5)
		}
	}
	pdf.Ln(4)

	// --- Document meta ---
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(95, 6, fmt.Sprintf("No: %s", p.DocumentNumber))
	pdf.Cell(95, 6, fmt.Sprintf("Status: %s", titleCaser.String(p.Status)))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(95, 6, fmt.Sprintf("Issue Date: %s", p.IssueDate.Format(dateLayout)))
	if p.DueDate != nil {
		label := "Due Date"
		if p.DocumentType == "quotation" {
			label = "Valid Until"
		}
		pdf.Cell(95, 6, fmt.Sprintf("%s: %s", label, p.DueDate.Format(dateLayout)))
	}
	pdf.Ln(10)

	// --- Client ---
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(190, 6, "Bill To")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	clientBlock := strings.TrimSpace(strings.Join(nonEmpty(p.ClientName, p.ClientAddress, p.ClientEmail, p.ClientPhone), "\n"))
	pdf.MultiCell(120, 5, tr(clientBlock), "", "L", false)
	pdf.Ln(6)

	// --- Items ---
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(95, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range p.Items {
		pdf.CellFormat(95, 8, tr(item.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, formatQuantity(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, formatMoney(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, formatMoney(item.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// --- Totals ---
	totals := []struct {
		label string
		value float64
		bold  bool
	}{
		{"Subtotal", p.Subtotal, false},
		{fmt.Sprintf("Tax (%s%%)", formatQuantity(p.TaxRate)), p.TaxAmount, false},
		{"Discount", -p.DiscountAmount, false},
		{"Total", p.Total, true},
	}
	for _, row := range totals {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.Cell(120, 7, "")
		pdf.CellFormat(35, 7, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, formatMoney(row.value), "1", 1, "R", false, 0, "")
	}

	// --- Notes / terms ---
	for _, section := range []struct{ title, body string }{{"Notes", p.Notes}, {"Terms", p.Terms}} {
		if strings.TrimSpace(section.body) == "" {
			continue
		}
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(190, 6, section.title)
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, tr(section.body), "", "L", false)
	}

	if p.VerifyURL != "" {
		png, err := qrcode.Encode(p.VerifyURL, qrcode.Medium, 256)
		if err != nil {
			e.logger.Warn("Skipping verification QR code", zap.String("number", p.DocumentNumber), zap.Error(err))
		} else {
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(qrImageName, opts, bytes.NewReader(png))
			pdf.ImageOptions(qrImageName, 170, 252, 28, 28, false, opts, 0, "")
		}
	}

	// --- Footer ---
	pdf.SetY(-20)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(150, 6, "This is a computer-generated document. No signature required.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	e.logger.Debug("PDF rendered", zap.String("number", p.DocumentNumber), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

var _ port.DocumentExporter = (*PDFExporter)(nil)

package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
)

func samplePayload() *port.ExportPayload {
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	return &port.ExportPayload{
		DocumentNumber: "INV-0007",
		DocumentType:   "invoice",
		Status:         "sent",
		ClientName:     "Acme Ltd",
		ClientEmail:    "ap@acme.test",
		ClientAddress:  "12 Road, Dhaka",
		IssueDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:        &due,
		Items: []port.ExportItem{
			{Description: "Website build", Quantity: 1, UnitPrice: 2000, Amount: 2000},
			{Description: "Hosting (months)", Quantity: 2, UnitPrice: 250, Amount: 500},
		},
		Subtotal:       2500,
		TaxRate:        5,
		TaxAmount:      125,
		DiscountAmount: 100,
		Total:          2525,
		Notes:          "Thank you for your business.",
		CompanyName:    "TechVibe",
		CompanyEmail:   "hello@techvibe.test",
		VerifyURL:      "https://techvibe.test/verify/invoice/INV-0007",
	}
}

func TestPDFExporter_Export(t *testing.T) {
	e := NewPDFExporter(zap.NewNop())
	assert.Equal(t, port.ExportPDF, e.Format())

	out, err := e.Export(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	p := samplePayload()
	p.VerifyURL = ""
	p.DueDate = nil
	p.Items = nil
	out, err = e.Export(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFExporter(zap.NewNop()).Export(ctx, samplePayload())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExcelExporter_Export(t *testing.T) {
	e := NewExcelExporter(zap.NewNop())
	assert.Equal(t, port.ExportXLSX, e.Format())

	out, err := e.Export(context.Background(), samplePayload())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"INV-0007"}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue("INV-0007", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "TechVibe", get("B1"))
	assert.Equal(t, "INV-0007", get("B3"))
	assert.Equal(t, "2026-03-31", get("B6"))
	assert.Equal(t, "Description", get("A12"))
	assert.Equal(t, "Website build", get("A13"))
	assert.Equal(t, "500", get("D14"))
	assert.Equal(t, "Total", get("C20"))
	assert.Equal(t, "2525", get("D20"))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "2525.00", formatMoney(2525))
	assert.Equal(t, "0.10", formatMoney(0.1))
	assert.Equal(t, "-100.00", formatMoney(-100))
	assert.Equal(t, "2", formatQuantity(2))
	assert.Equal(t, "1.50", formatQuantity(1.5))
}

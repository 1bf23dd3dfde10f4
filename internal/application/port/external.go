package port

import (
	"context"
	"time"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

// ExportFormat selects the generated file type
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

// Extension returns the file extension without the dot
func (f ExportFormat) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the format
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportPDF:
		return "application/pdf"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// ExportItem is one flattened line of an export payload
type ExportItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// ExportPayload is the flattened structure handed to document generators
type ExportPayload struct {
	DocumentNumber string       `json:"documentNumber"`
	DocumentType   string       `json:"documentType"`
	ClientName     string       `json:"clientName"`
	ClientEmail    string       `json:"clientEmail"`
	ClientPhone    string       `json:"clientPhone"`
	ClientAddress  string       `json:"clientAddress"`
	IssueDate      time.Time    `json:"issueDate"`
	DueDate        *time.Time   `json:"dueDate,omitempty"`
	Items          []ExportItem `json:"items"`
	Subtotal       float64      `json:"subtotal"`
	TaxRate        float64      `json:"taxRate"`
	TaxAmount      float64      `json:"taxAmount"`
	DiscountAmount float64      `json:"discountAmount"`
	Total          float64      `json:"total"`
	Notes          string       `json:"notes"`
	Terms          string       `json:"terms"`
	Status         string       `json:"status"`

	// Issuer header printed on the document
	CompanyName    string `json:"companyName"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyAddress string `json:"companyAddress"`
	VerifyURL      string `json:"verifyUrl,omitempty"`
}

// DocumentExporter renders an export payload into a file
type DocumentExporter interface {
	Format() ExportFormat
	Export(ctx context.Context, payload *ExportPayload) ([]byte, error)
}

// LeadNotifier tells the sales team about a new lead
type LeadNotifier interface {
	NotifyLead(ctx context.Context, kind entity.LeadKind, summary LeadSummary) error
}

// LeadSummary is the channel-neutral description of a lead
type LeadSummary struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

// Translator translates site copy between supported languages
type Translator interface {
	Translate(ctx context.Context, text string, from, to entity.Lang) (string, error)
}

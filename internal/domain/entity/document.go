package entity

import "time"

// ClientSnapshot is the client contact data copied onto a document at selection time.
// It never follows later edits of the client record.
type ClientSnapshot struct {
	Name    string `json:"client_name"`
	Email   string `json:"client_email"`
	Phone   string `json:"client_phone"`
	Address string `json:"client_address"`
}

// Totals are the derived money figures of a document
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// Document is an invoice or a quotation with its ordered line items
type Document struct {
	ID       int64        `json:"id"`
	Kind     DocumentKind `json:"kind"`
	Number   string       `json:"number"`
	ClientID *int64       `json:"client_id,omitempty"`
	ClientSnapshot

	IssueDate time.Time  `json:"issue_date"`
	DueDate   *time.Time `json:"due_date,omitempty"` // valid-until for quotations

	Status         DocumentStatus `json:"status"`
	TaxRatePercent float64        `json:"tax_rate"`
	DiscountAmount float64        `json:"discount_amount"`
	Notes          string         `json:"notes"`
	Terms          string         `json:"terms"`

	Items []LineItem `json:"items"`

	// Totals snapshot written at save time; listing reads it, full reads recompute it
	Totals

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsNew reports whether the document has not been persisted yet
func (d *Document) IsNew() bool {
	return d.ID == 0
}

// DocumentFilter narrows document listings
type DocumentFilter struct {
	Status    DocumentStatus
	ClientID  *int64
	DueBefore *time.Time
	Limit     int
	Offset    int
}

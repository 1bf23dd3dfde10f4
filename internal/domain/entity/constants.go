package entity

// DocumentKind distinguishes the two billing document families
type DocumentKind string

const (
	KindInvoice   DocumentKind = "invoice"
	KindQuotation DocumentKind = "quotation"
)

// IsValid reports whether the kind is one of the known document kinds
func (k DocumentKind) IsValid() bool {
	return k == KindInvoice || k == KindQuotation
}

// NumberPrefix returns the prefix used for human-readable document numbers
func (k DocumentKind) NumberPrefix() string {
	switch k {
	case KindInvoice:
		return "INV"
	case KindQuotation:
		return "QUO"
	default:
		return "DOC"
	}
}

// ParseDocumentKind accepts singular or plural route names
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch s {
	case "invoice", "invoices":
		return KindInvoice, nil
	case "quotation", "quotations":
		return KindQuotation, nil
	}
	return "", ErrInvalidKind
}

// DocumentStatus is a status value valid for one of the document kinds
type DocumentStatus string

// Invoice statuses
const (
	StatusDraft     DocumentStatus = "draft"
	StatusSent      DocumentStatus = "sent"
	StatusPaid      DocumentStatus = "paid"
	StatusOverdue   DocumentStatus = "overdue"
	StatusCancelled DocumentStatus = "cancelled"
)

// Quotation statuses
const (
	StatusPending   DocumentStatus = "pending"
	StatusApproved  DocumentStatus = "approved"
	StatusRejected  DocumentStatus = "rejected"
	StatusConverted DocumentStatus = "converted"
)

var invoiceStatuses = []DocumentStatus{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled}

var quotationStatuses = []DocumentStatus{StatusPending, StatusApproved, StatusRejected, StatusConverted}

// Statuses returns the closed status set for the kind.
// Any member may be set from any other; there is no transition table.
func (k DocumentKind) Statuses() []DocumentStatus {
	switch k {
	case KindInvoice:
		return append([]DocumentStatus(nil), invoiceStatuses...)
	case KindQuotation:
		return append([]DocumentStatus(nil), quotationStatuses...)
	}
	return nil
}

// DefaultStatus is the status a freshly created document starts in
func (k DocumentKind) DefaultStatus() DocumentStatus {
	if k == KindQuotation {
		return StatusPending
	}
	return StatusDraft
}

// AllowsStatus reports whether status belongs to the kind's status set
func (k DocumentKind) AllowsStatus(status DocumentStatus) bool {
	for _, s := range k.Statuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Lead status constants
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusClosed    = "closed"
)

// IsValidLeadStatus reports whether s is a known lead status
func IsValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusClosed:
		return true
	}
	return false
}

// Payment method constants
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodBkash        = "bkash"
	PaymentMethodCard         = "card"
	PaymentMethodOther        = "other"
)

// IsValidPaymentMethod reports whether m is a known payment method
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodBkash, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

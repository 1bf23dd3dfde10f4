package event

// Type identifies the type of domain event
type Type string

const (
	TypeDocumentSaved       Type = "document.saved"
	TypeDocumentDeleted     Type = "document.deleted"
	TypeDocumentStatus      Type = "document.status_changed"
	TypeQuotationConverted  Type = "quotation.converted"
	TypeLeadReceived        Type = "lead.received"
	TypePaymentRecorded     Type = "payment.recorded"
	TypeBusinessInfoUpdated Type = "business_info.updated"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeDocumentSaved,
		TypeDocumentDeleted,
		TypeDocumentStatus,
		TypeQuotationConverted,
		TypeLeadReceived,
		TypePaymentRecorded,
		TypeBusinessInfoUpdated:
		return true
	default:
		return false
	}
}

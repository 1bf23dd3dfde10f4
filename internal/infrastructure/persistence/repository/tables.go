package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

// documentTable returns the header table for a document kind.
// Table names are never taken from user input.
func documentTable(kind entity.DocumentKind) (string, error) {
	switch kind {
	case entity.KindInvoice:
		return "invoices", nil
	case entity.KindQuotation:
		return "quotations", nil
	}
	return "", fmt.Errorf("%w: %q", entity.ErrInvalidKind, kind)
}

// itemTable returns the line item table for a document kind
func itemTable(kind entity.DocumentKind) (string, error) {
	switch kind {
	case entity.KindInvoice:
		return "invoice_items", nil
	case entity.KindQuotation:
		return "quotation_items", nil
	}
	return "", fmt.Errorf("%w: %q", entity.ErrInvalidKind, kind)
}

func leadTable(kind entity.LeadKind) (string, error) {
	switch kind {
	case entity.LeadContact:
		return "contact_submissions", nil
	case entity.LeadQuote:
		return "quote_requests", nil
	case entity.LeadMeeting:
		return "meeting_requests", nil
	}
	return "", fmt.Errorf("%w: unknown lead kind %q", entity.ErrInvalidInput, kind)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// checkAffected turns a zero-row update or delete into entity.ErrNotFound
func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

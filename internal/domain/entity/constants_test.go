package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentKind_AllowsStatus(t *testing.T) {
	tests := []struct {
		kind   DocumentKind
		status DocumentStatus
		want   bool
	}{
		{KindInvoice, StatusDraft, true},
		{KindInvoice, StatusOverdue, true},
		{KindInvoice, StatusConverted, false},
		{KindQuotation, StatusConverted, true},
		{KindQuotation, StatusPaid, false},
		{DocumentKind("receipt"), StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.AllowsStatus(tt.status))
		})
	}
}

func TestDocumentKind_StatusesIsACopy(t *testing.T) {
	s := KindInvoice.Statuses()
	s[0] = "tampered"
	assert.Equal(t, StatusDraft, KindInvoice.Statuses()[0])
}

func TestParseDocumentKind(t *testing.T) {
	k, err := ParseDocumentKind("quotations")
	assert.NoError(t, err)
	assert.Equal(t, KindQuotation, k)

	_, err = ParseDocumentKind("receipts")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestDocumentKind_Defaults(t *testing.T) {
	assert.Equal(t, StatusDraft, KindInvoice.DefaultStatus())
	assert.Equal(t, StatusPending, KindQuotation.DefaultStatus())
	assert.Equal(t, "INV", KindInvoice.NumberPrefix())
	assert.Equal(t, "QUO", KindQuotation.NumberPrefix())
}

// Package billing holds the line-item, totals and document form rules shared by
// every caller that edits invoices and quotations.
package billing

import "github.com/techvibe/backoffice/internal/domain/entity"

// CalculateTotals derives subtotal, tax and total from the items.
// Plain float arithmetic: no rounding, no clamping, NaN propagates.
func CalculateTotals(items []entity.LineItem, taxRatePercent, discountAmount float64) entity.Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount()
	}

	taxAmount := subtotal * taxRatePercent / 100

	return entity.Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount - discountAmount,
	}
}

// ApplyTotals recomputes the document's totals snapshot from its items
func ApplyTotals(doc *entity.Document) {
	doc.Totals = CalculateTotals(doc.Items, doc.TaxRatePercent, doc.DiscountAmount)
}

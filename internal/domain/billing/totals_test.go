package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []entity.LineItem
		taxRate  float64
		discount float64
		want     entity.Totals
	}{
		{
			name: "quotation scenario",
			items: []entity.LineItem{
				{Quantity: 2, UnitPrice: 500},
				{Quantity: 1, UnitPrice: 1500},
			},
			taxRate:  5,
			discount: 100,
			want:     entity.Totals{Subtotal: 2500, TaxAmount: 125, Total: 2525},
		},
		{
			name:     "empty list",
			items:    nil,
			taxRate:  15,
			discount: 0,
			want:     entity.Totals{},
		},
		{
			name:     "single default row leaves only the discount",
			items:    []entity.LineItem{entity.NewLineItem()},
			taxRate:  5,
			discount: 250,
			want:     entity.Totals{Subtotal: 0, TaxAmount: 0, Total: -250},
		},
		{
			name:     "negative quantity flows through",
			items:    []entity.LineItem{{Quantity: -2, UnitPrice: 100}},
			taxRate:  10,
			discount: 0,
			want:     entity.Totals{Subtotal: -200, TaxAmount: -20, Total: -220},
		},
		{
			name:     "discount larger than total is not clamped",
			items:    []entity.LineItem{{Quantity: 1, UnitPrice: 100}},
			taxRate:  0,
			discount: 500,
			want:     entity.Totals{Subtotal: 100, TaxAmount: 0, Total: -400},
		},
		{
			name:     "zero tax",
			items:    []entity.LineItem{{Quantity: 3, UnitPrice: 40}},
			taxRate:  0,
			discount: 20,
			want:     entity.Totals{Subtotal: 120, TaxAmount: 0, Total: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.items, tt.taxRate, tt.discount)
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 1e-9)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
		})
	}
}

func TestCalculateTotals_Identities(t *testing.T) {
	items := []entity.LineItem{
		{Quantity: 1.25, UnitPrice: 80},
		{Quantity: 4, UnitPrice: -12.5},
		{Quantity: 0, UnitPrice: 999},
		{Quantity: 7, UnitPrice: 3.3},
	}

	for _, rate := range []float64{0, 5, 7.5, -3} {
		for _, discount := range []float64{0, 10, -5, 1e6} {
			got := CalculateTotals(items, rate, discount)

			var sum float64
			for _, it := range items {
				sum += it.Amount()
			}
			assert.Equal(t, sum, got.Subtotal)
			assert.Equal(t, got.Subtotal*rate/100, got.TaxAmount)
			assert.Equal(t, got.Subtotal+got.TaxAmount-discount, got.Total)
		}
	}
}

func TestCalculateTotals_Idempotent(t *testing.T) {
	items := []entity.LineItem{{Quantity: 3, UnitPrice: 33.33}, {Quantity: 0.1, UnitPrice: 0.2}}

	first := CalculateTotals(items, 7, 1)
	second := CalculateTotals(items, 7, 1)

	assert.Equal(t, first, second)
}

func TestCalculateTotals_NaNPropagates(t *testing.T) {
	got := CalculateTotals([]entity.LineItem{{Quantity: math.NaN(), UnitPrice: 1}}, 5, 0)
	assert.True(t, math.IsNaN(got.Subtotal))
	assert.True(t, math.IsNaN(got.Total))
}

func TestApplyTotals(t *testing.T) {
	doc := &entity.Document{
		Items:          []entity.LineItem{{Quantity: 2, UnitPrice: 500}, {Quantity: 1, UnitPrice: 1500}},
		TaxRatePercent: 5,
		DiscountAmount: 100,
	}

	ApplyTotals(doc)

	assert.Equal(t, 2525.0, doc.Total)
	assert.Equal(t, 125.0, doc.TaxAmount)
}

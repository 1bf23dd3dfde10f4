package export

import (
	"math"

	"github.com/shopspring/decimal"
)

// formatMoney renders a float amount with two decimals for display.
// Totals stay float64 in the domain; rounding happens only here.
func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatQuantity(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	d := decimal.NewFromFloat(v)
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}

const dateLayout = "02 Jan 2006"

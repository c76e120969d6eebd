package booking

import "math"

// Totals is the monetary breakdown shown in the confirm step and sent on the
// wire. Each stage is rounded to 2 decimals so Subtotal+Tax reproduces Total
// digit for digit; summary and payload must agree exactly.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals derives the booking totals from a service price and tax rate.
func ComputeTotals(price, taxRate float64) Totals {
	subtotal := round2(price)
	tax := round2(subtotal * taxRate)
	total := round2(subtotal + tax)
	return Totals{Subtotal: subtotal, Tax: tax, Total: total}
}

// ComputeRemaining returns the balance left after the fixed reservation fee,
// clamped at zero so a fee larger than the total never shows negative.
func ComputeRemaining(total, fee float64) float64 {
	return math.Max(round2(total-fee), 0)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

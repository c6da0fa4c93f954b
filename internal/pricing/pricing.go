package pricing

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the flat 10% rate applied to every order.
var TaxRate = decimal.New(1, -1)

type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// ComputeTotals derives tax and grand total from a gateway-reported subtotal.
// The grand total is always recomputed from the subtotal, never cached, and no
// rounding happens here; callers round at the presentation boundary only.
func ComputeTotals(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// FormatUSD renders a monetary amount with two decimal places for display.
func FormatUSD(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

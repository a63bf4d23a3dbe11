// Package accounting holds the VAT arithmetic shared by the sale generator
// and the reporting aggregates.
package accounting

import (
	"github.com/shopspring/decimal"
)

// VAT rate for taxed cafeteria items: 10%, included in the listed price.
var vatRate = decimal.NewFromInt(10)

var (
	one        = decimal.NewFromInt(1)
	oneHundred = decimal.NewFromInt(100)
	eleven     = decimal.NewFromInt(11)
)

// SplitIncludedVAT breaks a VAT-inclusive gross amount (in guaraníes) into
// its net and VAT parts under the 10% included-VAT regime, where
// VAT = gross / 11. The two parts always add back up to the gross amount;
// rounding differences land on the net side.
func SplitIncludedVAT(gross int64) (net decimal.Decimal, vat decimal.Decimal) {
	g := decimal.NewFromInt(gross)
	vat = g.Div(eleven).Round(0)
	net = g.Sub(vat)
	return net, vat
}

// IncludedVATOf returns only the VAT portion of a VAT-inclusive gross amount.
func IncludedVATOf(gross int64) decimal.Decimal {
	_, vat := SplitIncludedVAT(gross)
	return vat
}

// GrossFromNet computes the VAT-inclusive price from a net amount under the
// 10% regime.
func GrossFromNet(net decimal.Decimal) decimal.Decimal {
	return net.Mul(one.Add(vatRate.Div(oneHundred)))
}

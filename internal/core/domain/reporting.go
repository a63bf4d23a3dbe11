package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary aggregates one day of ledger and sale activity for the
// external reporting consumers. Totals are decimal so VAT splits survive
// aggregation without integer truncation surprises.
type DailySummary struct {
	Date               time.Time       `json:"date"`
	TopupCount         int64           `json:"topupCount"`
	TopupTotal         decimal.Decimal `json:"topupTotal"`
	ConsumptionCount   int64           `json:"consumptionCount"`
	ConsumptionTotal   decimal.Decimal `json:"consumptionTotal"`
	SaleCount          int64           `json:"saleCount"`
	SaleTotal          decimal.Decimal `json:"saleTotal"`
	ExemptTotal        decimal.Decimal `json:"exemptTotal"`
	TaxedNetTotal      decimal.Decimal `json:"taxedNetTotal"`
	VATTotal           decimal.Decimal `json:"vatTotal"`
	OutstandingDebt    decimal.Decimal `json:"outstandingDebt"`    // Sum of negative balances (as a positive figure)
	UnsettledAuthCount int64           `json:"unsettledAuthCount"` // Open negative-balance authorizations
}
